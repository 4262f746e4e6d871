package repo

import (
	"context"
	"time"

	"github.com/hamed0406/proberace/internal/domain"
)

// Ports (interfaces) — swap in any storage adapter later.

type TargetStore interface {
	Add(ctx context.Context, t *domain.Target) error
	List(ctx context.Context) ([]*domain.Target, error)
	GetByURL(ctx context.Context, url string) (*domain.Target, error)
}

type RecordStore interface {
	Append(ctx context.Context, r *domain.ProbeRecord) error
	// Latest returns the most recent record per target, joined with its URL.
	Latest(ctx context.Context) ([]LatestRow, error)
}

type RaceStore interface {
	AppendRace(ctx context.Context, r *domain.RaceRecord) error
	// Races returns the most recent races, newest first, at most limit.
	Races(ctx context.Context, limit int) ([]*domain.RaceRecord, error)
}

// LatestRow is the latest known state of one target.
type LatestRow struct {
	TargetID   string    `json:"target_id"`
	URL        string    `json:"url"`
	Up         bool      `json:"up"`
	StatusCode int       `json:"status_code,omitempty"`
	LatencyMS  float64   `json:"latency_ms"`
	Reason     string    `json:"reason,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// AlertRecord holds the last UP/DOWN state we saw for a target and the last
// time we sent a notification for it (used for cooldown).
type AlertRecord struct {
	TargetID   string
	LastState  bool
	LastSentAt *time.Time
}

type AlertStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, targetID string) (*AlertRecord, error)
	// Set upserts the record. A zero sentAt leaves LastSentAt unset.
	Set(ctx context.Context, targetID string, lastState bool, sentAt time.Time) error
}
