package scheduler

import (
	"context"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/hamed0406/proberace/internal/domain"
	"github.com/hamed0406/proberace/internal/probe"
	"github.com/hamed0406/proberace/internal/repo"
)

// Sweeper periodically re-probes every stored target on a bounded worker
// pool and appends the outcomes to the record store. Each sweep waits for
// all of its probes before the next tick can start one.
type Sweeper struct {
	Logger   *zap.Logger
	Targets  repo.TargetStore
	Records  repo.RecordStore
	Checker  probe.Checker
	Interval time.Duration
	Timeout  time.Duration
	PoolSize int
}

func NewSweeper(
	logger *zap.Logger,
	ts repo.TargetStore,
	rs repo.RecordStore,
	checker probe.Checker,
	interval time.Duration,
	timeout time.Duration,
	poolSize int,
) *Sweeper {
	if poolSize < 1 {
		poolSize = 1
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sweeper{
		Logger:   logger,
		Targets:  ts,
		Records:  rs,
		Checker:  probe.Safe(checker),
		Interval: interval,
		Timeout:  timeout,
		PoolSize: poolSize,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Interval == 0 {
		// disabled
		s.Logger.Info("sweeper_disabled")
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	// immediate pass
	s.sweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("sweeper_stopped")
			return
		case <-t.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	ts, err := s.Targets.List(ctx)
	if err != nil {
		s.Logger.Warn("sweeper_list_error", zap.Error(err))
		return
	}
	if len(ts) == 0 {
		return
	}

	wp := workerpool.New(s.PoolSize)
	for _, tgt := range ts {
		t := tgt
		wp.Submit(func() {
			cctx, cancel := context.WithTimeout(ctx, s.Timeout)
			defer cancel()

			out := s.Checker.Check(cctx, t.URL)

			rec := &domain.ProbeRecord{
				TargetID:   t.ID,
				Up:         out.Success,
				StatusCode: out.StatusCode,
				LatencyMS:  out.LatencyMS,
				Reason:     out.Message,
				CheckedAt:  time.Now().UTC(),
			}
			if err := s.Records.Append(ctx, rec); err != nil {
				s.Logger.Warn("sweeper_append_error",
					zap.String("target_id", string(t.ID)),
					zap.String("url", t.URL),
					zap.Error(err),
				)
				return
			}
			s.Logger.Debug("sweeper_checked",
				zap.String("target_id", string(t.ID)),
				zap.String("url", t.URL),
				zap.Int("status", out.StatusCode),
				zap.Bool("up", out.Success),
				zap.Float64("latency_ms", out.LatencyMS),
			)
		})
	}
	wp.StopWait()
}
