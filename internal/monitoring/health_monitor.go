package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

type Prober interface {
	Check(ctx context.Context) (bool, string)
}

// MonitorHealth probes on every tick and stores the outcome in healthy until
// ctx is done. The first probe runs immediately.
func MonitorHealth(ctx context.Context, probe Prober, interval time.Duration, healthy *atomic.Bool) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runProbe := func() {
		ok, msg := probe.Check(ctx)
		healthy.Store(ok)
		if !ok {
			slog.Warn("[HealthCheck] Scoring service is unhealthy", slog.String("message", msg))
		}
	}

	runProbe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runProbe()
		}
	}
}
