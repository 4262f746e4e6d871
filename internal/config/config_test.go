package config

import (
	"os"
	"testing"
	"time"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("RACE_TIMEOUT_MS", "1234")
	t.Setenv("SWEEP_INTERVAL_MS", "0")
	t.Setenv("SWEEP_POOL_SIZE", "7")
	t.Setenv("RETRY_ATTEMPTS", "5")
	t.Setenv("RETRY_BACKOFF_MS", "250")
	t.Setenv("API_RPM", "111")
	t.Setenv("SLACK_WEBHOOK", "https://hooks.example/abc")

	cfg := FromEnv()

	if cfg.Addr != ":9090" || cfg.LogDir != "./_testlogs" {
		t.Fatalf("addr/logdir wrong: %+v", cfg)
	}
	if cfg.RaceTimeout != 1234*time.Millisecond {
		t.Fatalf("race timeout wrong: %v", cfg.RaceTimeout)
	}
	if cfg.SweepInterval != 0 {
		t.Fatalf("sweep interval should parse 0 (disabled), got %v", cfg.SweepInterval)
	}
	if cfg.PoolSize != 7 || cfg.RetryAttempts != 5 || cfg.RetryBackoff != 250*time.Millisecond {
		t.Fatalf("sweep tuning wrong: %+v", cfg)
	}
	if cfg.RPM != 111 || cfg.SlackWebhook == "" {
		t.Fatalf("rpm/webhook wrong: %+v", cfg)
	}

	// ensure defaults don’t crash if missing env
	os.Unsetenv("ADDR")
	_ = FromEnv()
}

func TestFromEnv_GarbageFallsBackToDefaults(t *testing.T) {
	t.Setenv("RACE_TIMEOUT_MS", "not-a-number")
	t.Setenv("SWEEP_POOL_SIZE", "-3")

	cfg := FromEnv()
	if cfg.RaceTimeout != 10*time.Second {
		t.Fatalf("expected default race timeout, got %v", cfg.RaceTimeout)
	}
	if cfg.PoolSize != 8 {
		t.Fatalf("expected default pool size, got %d", cfg.PoolSize)
	}
}
