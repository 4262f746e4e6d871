package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/proberace/internal/config"
	"github.com/hamed0406/proberace/internal/httpapi"
	"github.com/hamed0406/proberace/internal/logging"
	"github.com/hamed0406/proberace/internal/notify"
	"github.com/hamed0406/proberace/internal/probe"
	"github.com/hamed0406/proberace/internal/repo/memory"
	"github.com/hamed0406/proberace/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store := memory.New()

	checker := probe.NewHTTPChecker(cfg.SweepTimeout)
	sweepChecker := &probe.RetryChecker{
		Inner:    checker,
		Attempts: cfg.RetryAttempts,
		Backoff:  cfg.RetryBackoff,
	}

	api := httpapi.NewServer(logger, store, store, store, checker, cfg.RaceTimeout)
	sweeper := scheduler.NewSweeper(logger, store, store, sweepChecker,
		cfg.SweepInterval, cfg.SweepTimeout, cfg.PoolSize)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.RPM, cfg.Burst),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sweeper.Run(ctx)
		return nil
	})

	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil && cfg.SweepInterval > 0 {
		alerter := scheduler.NewAlerter(store, store, notify.Multi{slack}, scheduler.AlerterConfig{
			AlertOnRecovery: cfg.AlertOnRecovery,
			Cooldown:        cfg.AlertCooldown,
			PollInterval:    cfg.SweepInterval,
		})
		g.Go(func() error {
			if err := alerter.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("exit", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("bye")
}
