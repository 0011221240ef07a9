package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	HEALTH_PATH          = "/health"
	DefaultProbeTimeout  = 5 * time.Second
	MessageAPIAvailable  = "API disponible"
	messageStatusPattern = "API respondió con código %d"
)

// HealthProbe checks the liveness endpoint of the scoring service. It is
// unauthenticated and shares nothing with the observation client except the
// base URL.
type HealthProbe struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

func NewHealthProbe(baseURL string) *HealthProbe {
	return &HealthProbe{BaseURL: baseURL, Timeout: DefaultProbeTimeout}
}

func (p *HealthProbe) Check(ctx context.Context) (bool, string) {
	return check(ctx, p.BaseURL, p.Timeout, p.Transport)
}

// Check issues GET <baseURL>/health. Only a 200 counts as available. It never
// panics and always returns a message.
func Check(ctx context.Context, baseURL string, timeout time.Duration) (bool, string) {
	return check(ctx, baseURL, timeout, nil)
}

func check(ctx context.Context, baseURL string, timeout time.Duration, transport http.RoundTripper) (available bool, message string) {
	defer func() {
		if r := recover(); r != nil {
			available = false
			message = fmt.Sprintf("health probe failed: %v", r)
		}
	}()

	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	endpoint := strings.TrimRight(baseURL, "/") + HEALTH_PATH

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err.Error()
	}

	client := &http.Client{Timeout: timeout, Transport: transport}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("[HealthCheck] Health probe failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return false, err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("[HealthCheck] Scoring service is unhealthy",
			slog.Int("status", resp.StatusCode))
		return false, fmt.Sprintf(messageStatusPattern, resp.StatusCode)
	}

	slog.Debug("[HealthCheck] Scoring service is healthy",
		slog.Duration("elapsed", time.Since(start)))
	return true, MessageAPIAvailable
}
