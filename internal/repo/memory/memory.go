package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/proberace/internal/domain"
	"github.com/hamed0406/proberace/internal/repo"
)

// Store keeps targets, probe records, race history and alert state in
// memory behind one read-write lock. Results never outlive the process.
type Store struct {
	mu      sync.RWMutex
	targets map[domain.TargetID]*domain.Target
	records []*domain.ProbeRecord
	races   []*domain.RaceRecord
	alerts  map[string]repo.AlertRecord
}

func New() *Store {
	return &Store{
		targets: make(map[domain.TargetID]*domain.Target),
		records: make([]*domain.ProbeRecord, 0, 128),
		alerts:  make(map[string]repo.AlertRecord),
	}
}

func (m *Store) Add(ctx context.Context, t *domain.Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = domain.TargetID(uuid.NewString())
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.targets[t.ID] = t
	return nil
}

func (m *Store) List(ctx context.Context) ([]*domain.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Target, 0, len(m.targets))
	for _, t := range m.targets {
		out = append(out, t)
	}
	return out, nil
}

func (m *Store) GetByURL(ctx context.Context, url string) (*domain.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.targets {
		if t.URL == url {
			return t, nil
		}
	}
	return nil, nil
}

func (m *Store) Append(ctx context.Context, r *domain.ProbeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *Store) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[domain.TargetID]*domain.ProbeRecord)
	for _, r := range m.records {
		cur := latest[r.TargetID]
		if cur == nil || r.CheckedAt.After(cur.CheckedAt) {
			latest[r.TargetID] = r
		}
	}

	out := make([]repo.LatestRow, 0, len(latest))
	for tid, r := range latest {
		url := ""
		if t := m.targets[tid]; t != nil {
			url = t.URL
		}
		out = append(out, repo.LatestRow{
			TargetID:   string(tid),
			URL:        url,
			Up:         r.Up,
			StatusCode: r.StatusCode,
			LatencyMS:  r.LatencyMS,
			Reason:     r.Reason,
			CheckedAt:  r.CheckedAt,
		})
	}
	return out, nil
}

func (m *Store) AppendRace(ctx context.Context, r *domain.RaceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RacedAt.IsZero() {
		r.RacedAt = time.Now().UTC()
	}
	m.races = append(m.races, r)
	return nil
}

func (m *Store) Races(ctx context.Context, limit int) ([]*domain.RaceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.races)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*domain.RaceRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.races[i])
	}
	return out, nil
}

func (m *Store) Get(ctx context.Context, targetID string) (*repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.alerts[targetID]
	if !ok {
		return nil, nil
	}
	rr := r
	return &rr, nil
}

func (m *Store) Set(ctx context.Context, targetID string, lastState bool, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ts *time.Time
	if !sentAt.IsZero() {
		ts = &sentAt
	}
	m.alerts[targetID] = repo.AlertRecord{TargetID: targetID, LastState: lastState, LastSentAt: ts}
	return nil
}
