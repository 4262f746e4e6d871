package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/proberace/internal/aggregate"
	"github.com/hamed0406/proberace/internal/domain"
	apimw "github.com/hamed0406/proberace/internal/httpapi/middleware"
	"github.com/hamed0406/proberace/internal/probe"
	"github.com/hamed0406/proberace/internal/race"
	"github.com/hamed0406/proberace/internal/repo"
)

type Server struct {
	Logger      *zap.Logger
	Targets     repo.TargetStore
	Records     repo.RecordStore
	Races       repo.RaceStore
	Checker     probe.Checker
	RaceTimeout time.Duration
}

func NewServer(l *zap.Logger, ts repo.TargetStore, rs repo.RecordStore, races repo.RaceStore,
	c probe.Checker, raceTimeout time.Duration) *Server {
	if raceTimeout <= 0 {
		raceTimeout = race.DefaultTimeout
	}
	return &Server{
		Logger:      l,
		Targets:     ts,
		Records:     rs,
		Races:       races,
		Checker:     c,
		RaceTimeout: raceTimeout,
	}
}

// Router builds the HTTP surface. rpm/burst configure the per-IP rate
// limiter; rpm <= 0 disables it.
func (s *Server) Router(rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(apimw.RateLimit(rpm, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/targets", s.handleListTargets)
	r.Post("/api/targets", s.handleAddTarget)
	r.Get("/api/results/latest", s.handleLatest)

	r.Post("/api/race", s.handleRace)
	r.Get("/api/races", s.handleListRaces)
	r.Post("/api/checkall", s.handleCheckAll)

	return r
}

type racePayload struct {
	Targets   []string `json:"targets"`
	TimeoutMS int      `json:"timeout_ms,omitempty"`
}

func (s *Server) handleRace(w http.ResponseWriter, r *http.Request) {
	var p racePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	timeout := s.RaceTimeout
	if p.TimeoutMS > 0 {
		timeout = time.Duration(p.TimeoutMS) * time.Millisecond
	}

	winner, err := race.Race(r.Context(), s.Checker, p.Targets, race.WithTimeout(timeout))

	rec := &domain.RaceRecord{
		Targets: p.Targets,
		Winner:  winner,
		RacedAt: time.Now().UTC(),
	}

	switch {
	case err == nil:
		_ = s.Races.AppendRace(r.Context(), rec)
		s.Logger.Info("race_decided",
			zap.Strings("targets", p.Targets),
			zap.String("winner", winner),
		)
		writeJSON(w, http.StatusOK, map[string]any{"winner": winner, "race_id": rec.ID})

	case errors.Is(err, race.ErrNoTargets):
		http.Error(w, "at least one target required", http.StatusBadRequest)

	case errors.Is(err, race.ErrAllFailed):
		rec.AllFailed = true
		rec.Reason = err.Error()
		_ = s.Races.AppendRace(r.Context(), rec)
		s.Logger.Info("race_all_failed", zap.Strings("targets", p.Targets))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"all_failed": true,
			"error":      err.Error(),
			"race_id":    rec.ID,
		})

	default:
		// parent context cancelled or another internal condition
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleListRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.Races.Races(r.Context(), 50)
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, races)
}

type checkAllPayload struct {
	Targets []string `json:"targets"`
}

func (s *Server) handleCheckAll(w http.ResponseWriter, r *http.Request) {
	var p checkAllPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	results := aggregate.CheckAll(r.Context(), s.Checker, p.Targets)

	s.Logger.Info("checkall_done", zap.Int("targets", len(p.Targets)))
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type addPayload struct {
	URL string `json:"url"`
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var p addPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if !isValidHTTPURL(p.URL) {
		http.Error(w, "invalid URL", http.StatusBadRequest)
		return
	}
	norm := normalizeHTTPURL(p.URL)

	if existing, err := s.Targets.GetByURL(r.Context(), norm); err == nil && existing != nil {
		http.Error(w, "target already exists", http.StatusConflict)
		return
	}

	t := &domain.Target{URL: norm, CreatedAt: time.Now().UTC()}
	if err := s.Targets.Add(r.Context(), t); err != nil {
		http.Error(w, "could not add", http.StatusInternalServerError)
		return
	}

	// Run a single check synchronously for immediate feedback
	out := s.Checker.Check(r.Context(), norm)

	// If the HTTP check fails, see whether the name even resolves
	reason := out.Message
	if !out.Success {
		dns := probe.NewDNSChecker().Check(r.Context(), norm)
		if !dns.Success {
			reason = strings.TrimSpace(reason + " dns: " + dns.Message)
		}
	}

	rec := &domain.ProbeRecord{
		TargetID:   t.ID,
		Up:         out.Success,
		StatusCode: out.StatusCode,
		LatencyMS:  out.LatencyMS,
		Reason:     reason,
		CheckedAt:  time.Now().UTC(),
	}
	_ = s.Records.Append(r.Context(), rec)

	s.Logger.Info("added_target",
		zap.String("url", norm),
		zap.Bool("up", out.Success),
		zap.Float64("latency_ms", out.LatencyMS),
	)

	writeJSON(w, http.StatusOK, map[string]any{"target": t, "summary": rec})
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Targets.List(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Records.Latest(r.Context())
	if err != nil {
		http.Error(w, "latest error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isValidHTTPURL accepts only absolute http/https URLs with a host.
func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

// normalizeHTTPURL lowercases the host, strips default ports and a bare
// trailing slash so duplicates compare equal.
func normalizeHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
	}
	return u.String()
}
