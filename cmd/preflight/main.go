// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	sweep := strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_MS"))
	pool := strings.TrimSpace(os.Getenv("SWEEP_POOL_SIZE"))
	webhook := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if addr == "" {
		warn("ADDR is empty; default 127.0.0.1:8080 will be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if sweep != "" {
		if n, err := strconv.Atoi(sweep); err != nil || n < 0 {
			fail("SWEEP_INTERVAL_MS must be a non-negative integer, got " + sweep)
		} else if n == 0 {
			warn("SWEEP_INTERVAL_MS=0 — periodic sweeps (and alerts) disabled.")
		} else {
			ok("SWEEP_INTERVAL_MS=" + sweep)
		}
	}

	if pool != "" {
		if n, err := strconv.Atoi(pool); err != nil || n < 1 {
			fail("SWEEP_POOL_SIZE must be a positive integer, got " + pool)
		} else {
			ok("SWEEP_POOL_SIZE=" + pool)
		}
	}

	if webhook == "" {
		warn("SLACK_WEBHOOK empty — down/recovery notifications disabled.")
	} else if !strings.HasPrefix(webhook, "https://") {
		fail("SLACK_WEBHOOK must be an https URL.")
	} else {
		ok("SLACK_WEBHOOK present")
	}

	ok("preflight passed")
}
