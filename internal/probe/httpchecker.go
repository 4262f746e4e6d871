package probe

import (
	"context"
	"net/http"
	"time"
)

// HTTPChecker probes a target URL with a GET request. A 2xx/3xx status
// counts as success; transport errors, timeouts and 4xx/5xx do not.
type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker returns an HTTPChecker whose underlying client enforces
// the given per-request timeout. Cancellation of the Check context aborts
// an in-flight request as well.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) Outcome {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Outcome{Success: false, Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return Outcome{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 400
	return Outcome{
		Success:    success,
		Message:    resp.Status,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
	}
}
