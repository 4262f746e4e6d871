package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/proberace/internal/notify"
	"github.com/hamed0406/proberace/internal/repo"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
	PollInterval    time.Duration
}

// Alerter watches the latest probe records and notifies on up/down state
// transitions. Repeated DOWN alerts for the same target are suppressed
// within the cooldown window; recovery alerts bypass it.
type Alerter struct {
	results  repo.RecordStore
	alertDB  repo.AlertStore
	notifier notify.Notifier
	cfg      AlerterConfig
}

func NewAlerter(results repo.RecordStore, alertDB repo.AlertStore, notifier notify.Notifier, cfg AlerterConfig) *Alerter {
	return &Alerter{
		results:  results,
		alertDB:  alertDB,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (a *Alerter) Run(ctx context.Context) error {
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	// initial pass
	_ = a.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = a.scanOnce(ctx)
		}
	}
}

func (a *Alerter) scanOnce(ctx context.Context) error {
	rows, err := a.results.Latest(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, r := range rows {
		rec, _ := a.alertDB.Get(ctx, r.TargetID)

		stateChanged := rec == nil || rec.LastState != r.Up

		// Cooldown only matters for DOWN alerts (suppresses noisy repeats).
		cooled := true
		if rec != nil && rec.LastSentAt != nil {
			cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
		}

		downAlert := stateChanged && !r.Up && cooled
		recoveryAlert := stateChanged && r.Up && a.cfg.AlertOnRecovery // bypass cooldown

		if downAlert || recoveryAlert {
			title := "Target DOWN"
			if r.Up {
				title = "Target RECOVERED"
			}

			text := fmt.Sprintf(
				"URL: %s\nStatus: %d\nLatency: %.0f ms\nReason: %s\nChecked: %s",
				r.URL, r.StatusCode, r.LatencyMS, r.Reason, r.CheckedAt.Format(time.RFC3339),
			)

			// Best-effort send, then record the send time
			_ = a.notifier.Send(ctx, title, text)
			_ = a.alertDB.Set(ctx, r.TargetID, r.Up, now)
			continue
		}

		// State changed but nothing sent (cooldown, or recovery alerts
		// disabled): still record the new state without a send time.
		if stateChanged {
			_ = a.alertDB.Set(ctx, r.TargetID, r.Up, time.Time{})
		}
	}

	return nil
}
