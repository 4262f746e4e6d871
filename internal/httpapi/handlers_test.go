package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/proberace/internal/probe"
	"github.com/hamed0406/proberace/internal/repo/memory"
)

// ---- test helpers ----

// mapChecker answers per target; unlisted targets fail.
type mapChecker struct {
	up map[string]probe.Outcome
}

func (f *mapChecker) Check(_ context.Context, target string) probe.Outcome {
	if out, ok := f.up[target]; ok {
		return out
	}
	return probe.Outcome{Success: false, Message: "unreachable"}
}

func setupServer(t *testing.T, chk probe.Checker) *httptest.Server {
	t.Helper()
	store := memory.New()
	srv := NewServer(zap.NewNop(), store, store, store, chk, 2*time.Second)
	// rate limiting disabled to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(0, 0))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// ---- tests ----

func TestRaceEndpoint_Winner(t *testing.T) {
	chk := &mapChecker{up: map[string]probe.Outcome{
		"https://fast.example": {Success: true, StatusCode: 200},
	}}
	ts := setupServer(t, chk)

	resp := postJSON(t, ts.URL+"/api/race",
		`{"targets":["https://slow.example","https://fast.example"]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out struct {
		Winner string `json:"winner"`
		RaceID string `json:"race_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Winner != "https://fast.example" {
		t.Fatalf("unexpected winner %q", out.Winner)
	}
	if out.RaceID == "" {
		t.Fatalf("expected race to be recorded with an ID")
	}

	// the race shows up in history
	respH, err := http.Get(ts.URL + "/api/races")
	if err != nil {
		t.Fatalf("GET races: %v", err)
	}
	defer respH.Body.Close()
	var races []map[string]any
	if err := json.NewDecoder(respH.Body).Decode(&races); err != nil {
		t.Fatalf("decode races: %v", err)
	}
	if len(races) != 1 {
		t.Fatalf("expected 1 recorded race, got %d", len(races))
	}
}

func TestRaceEndpoint_AllFailedIs502(t *testing.T) {
	ts := setupServer(t, &mapChecker{}) // everything fails

	resp := postJSON(t, ts.URL+"/api/race",
		`{"targets":["https://a.example","https://b.example"],"timeout_ms":100}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("want 502 on all-failed, got %d", resp.StatusCode)
	}

	var out struct {
		AllFailed bool   `json:"all_failed"`
		Error     string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.AllFailed || out.Error == "" {
		t.Fatalf("expected all_failed payload, got %+v", out)
	}
}

func TestRaceEndpoint_EmptyTargetsIs400(t *testing.T) {
	ts := setupServer(t, &mapChecker{})

	resp := postJSON(t, ts.URL+"/api/race", `{"targets":[]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 on empty targets, got %d", resp.StatusCode)
	}
}

func TestCheckAllEndpoint(t *testing.T) {
	chk := &mapChecker{up: map[string]probe.Outcome{
		"https://up.example": {Success: true, StatusCode: 200},
	}}
	ts := setupServer(t, chk)

	resp := postJSON(t, ts.URL+"/api/checkall",
		`{"targets":["https://up.example","https://down.example"]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out struct {
		Results map[string]bool `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 entries, got %+v", out.Results)
	}
	if !out.Results["https://up.example"] || out.Results["https://down.example"] {
		t.Fatalf("unexpected results: %+v", out.Results)
	}
}

func TestAddTarget_OK_Duplicate_Invalid(t *testing.T) {
	chk := &mapChecker{up: map[string]probe.Outcome{
		"https://example.com": {Success: true, StatusCode: 200, LatencyMS: 12.5, Message: "200 OK"},
	}}
	ts := setupServer(t, chk)

	// 1) Add OK
	resp := postJSON(t, ts.URL+"/api/targets", `{"url":"https://example.com"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var addResp struct {
		Target struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"target"`
		Summary struct {
			Up         bool `json:"up"`
			StatusCode int  `json:"status_code"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&addResp); err != nil {
		t.Fatalf("decode add resp: %v", err)
	}
	if !addResp.Summary.Up || addResp.Summary.StatusCode != 200 {
		t.Fatalf("expected up=true & status=200, got %+v", addResp.Summary)
	}
	if addResp.Target.ID == "" || addResp.Target.URL != "https://example.com" {
		t.Fatalf("unexpected target: %+v", addResp.Target)
	}

	// 2) Duplicate (after normalization) should be 409
	resp2 := postJSON(t, ts.URL+"/api/targets", `{"url":"https://EXAMPLE.com/"}`)
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		t.Fatalf("want 409 on duplicate, got %d", resp2.StatusCode)
	}

	// 3) Invalid URL should be 400
	resp3 := postJSON(t, ts.URL+"/api/targets", `{"url":"ftp://bad"}`)
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 on invalid URL, got %d", resp3.StatusCode)
	}
}

func TestListAndLatest(t *testing.T) {
	chk := &mapChecker{up: map[string]probe.Outcome{
		"https://example.com": {Success: true, StatusCode: 201, LatencyMS: 7.0, Message: "201 Created"},
	}}
	ts := setupServer(t, chk)

	if resp := postJSON(t, ts.URL+"/api/targets", `{"url":"https://example.com"}`); resp.StatusCode != 200 {
		resp.Body.Close()
		t.Fatalf("add failed: status %d", resp.StatusCode)
	}

	respL, err := http.Get(ts.URL + "/api/targets")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	defer respL.Body.Close()
	var list []struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(respL.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].URL != "https://example.com" {
		t.Fatalf("unexpected list: %+v", list)
	}

	respLt, err := http.Get(ts.URL + "/api/results/latest")
	if err != nil {
		t.Fatalf("latest error: %v", err)
	}
	defer respLt.Body.Close()
	var latest []struct {
		StatusCode int  `json:"status_code"`
		Up         bool `json:"up"`
	}
	if err := json.NewDecoder(respLt.Body).Decode(&latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if len(latest) != 1 || latest[0].StatusCode != 201 || !latest[0].Up {
		t.Fatalf("unexpected latest rows: %+v", latest)
	}
}
