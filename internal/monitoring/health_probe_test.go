package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Available(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok, msg := Check(context.Background(), srv.URL, time.Second)

	assert.True(t, ok)
	assert.Equal(t, "API disponible", msg)
	assert.Equal(t, "/health", gotPath)
	assert.Empty(t, gotAuth)
}

func TestCheck_UnhealthyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ok, msg := Check(context.Background(), srv.URL, time.Second)

	assert.False(t, ok)
	assert.Equal(t, "API respondió con código 503", msg)
}

func TestCheck_OnlyOKCountsAsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ok, msg := Check(context.Background(), srv.URL+"/", time.Second)

	assert.False(t, ok)
	assert.Equal(t, "API respondió con código 204", msg)
}

func TestCheck_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	ok, msg := Check(context.Background(), baseURL, time.Second)

	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestCheck_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ok, msg := Check(context.Background(), srv.URL, 50*time.Millisecond)

	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestCheck_InvalidURL(t *testing.T) {
	ok, msg := Check(context.Background(), "://bad", time.Second)

	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

type stubProber struct {
	calls atomic.Int32
	ok    bool
}

func (s *stubProber) Check(context.Context) (bool, string) {
	s.calls.Add(1)
	return s.ok, "stub"
}

func TestMonitorHealth_StoresOutcome(t *testing.T) {
	probe := &stubProber{ok: true}
	var healthy atomic.Bool

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MonitorHealth(ctx, probe, 10*time.Millisecond, &healthy)
		close(done)
	}()

	require.Eventually(t, func() bool { return probe.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, healthy.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
