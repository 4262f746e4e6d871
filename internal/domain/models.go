package domain

import "time"

type TargetID string

// Target is something worth probing, registered through the API.
type Target struct {
	ID        TargetID  `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// ProbeRecord is the persisted outcome of one probe attempt against one
// target.
type ProbeRecord struct {
	TargetID   TargetID  `json:"target_id"`
	Up         bool      `json:"up"`
	StatusCode int       `json:"status_code,omitempty"`
	LatencyMS  float64   `json:"latency_ms"`
	Reason     string    `json:"reason,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// RaceRecord is the persisted result of one dispatcher race. Winner is
// empty iff AllFailed is true.
type RaceRecord struct {
	ID        string    `json:"id"`
	Targets   []string  `json:"targets"`
	Winner    string    `json:"winner,omitempty"`
	AllFailed bool      `json:"all_failed"`
	Reason    string    `json:"reason,omitempty"`
	RacedAt   time.Time `json:"raced_at"`
}
