package probe

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNSChecker probes whether the target's hostname resolves to at least one
// address. It accepts either a bare hostname or a full URL.
type DNSChecker struct {
	Resolver *net.Resolver
}

func NewDNSChecker() *DNSChecker {
	return &DNSChecker{Resolver: &net.Resolver{}} // OS resolver
}

func (d *DNSChecker) Check(ctx context.Context, target string) Outcome {
	host := extractHost(target)
	if host == "" {
		return Outcome{Success: false, Message: "invalid hostname"}
	}

	start := time.Now()
	ips, err := d.Resolver.LookupIP(ctx, "ip", host)
	latency := time.Since(start).Seconds() * 1000
	if err != nil || len(ips) == 0 {
		msg := "no A/AAAA records"
		if err != nil {
			msg = err.Error()
		}
		return Outcome{Success: false, Message: msg, LatencyMS: latency}
	}
	return Outcome{Success: true, Message: "resolves", LatencyMS: latency}
}

// extractHost pulls the hostname from a URL string, falling back to the
// raw input when it is not URL-shaped.
func extractHost(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
