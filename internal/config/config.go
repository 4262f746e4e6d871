package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string        // API bind address, e.g. "127.0.0.1:8080" or ":8080"
	LogDir        string        // logs directory
	RaceTimeout   time.Duration // per-attempt timeout for /api/race
	SweepInterval time.Duration // how often the sweeper re-probes all targets; 0 disables
	SweepTimeout  time.Duration // per-probe timeout during a sweep
	PoolSize      int           // max parallel probes per sweep
	RetryAttempts int           // how many times the sweeper retries a failed probe
	RetryBackoff  time.Duration // backoff between retries
	RPM           int           // API rate limit, requests per minute; 0 disables
	Burst         int           // API rate limit burst
	SlackWebhook  string        // empty disables notifications
	AlertCooldown time.Duration // minimum gap between repeated DOWN alerts

	AlertOnRecovery bool
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	return Config{
		Addr:            addr,
		LogDir:          logDir,
		RaceTimeout:     envDuration("RACE_TIMEOUT_MS", 10*time.Second),
		SweepInterval:   envDuration("SWEEP_INTERVAL_MS", time.Minute),
		SweepTimeout:    envDuration("SWEEP_TIMEOUT_MS", 10*time.Second),
		PoolSize:        envInt("SWEEP_POOL_SIZE", 8),
		RetryAttempts:   envInt("RETRY_ATTEMPTS", 2),
		RetryBackoff:    envDuration("RETRY_BACKOFF_MS", 300*time.Millisecond),
		RPM:             envInt("API_RPM", 0),
		Burst:           envInt("API_BURST", 30),
		SlackWebhook:    os.Getenv("SLACK_WEBHOOK"),
		AlertCooldown:   envDuration("ALERT_COOLDOWN_MS", 15*time.Minute),
		AlertOnRecovery: os.Getenv("ALERT_ON_RECOVERY") != "false",
	}
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envDuration(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
