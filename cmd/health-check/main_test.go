package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alchemorsel/recipe-explorer/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func probeServer(t *testing.T, status healthcheck.Status) string {
	t.Helper()
	hc := healthcheck.New("1.2.3", zap.NewNop())
	hc.Register("database", healthcheck.NewCustomChecker(func(context.Context) (healthcheck.Status, string, interface{}) {
		return status, "", nil
	}))

	srv := httptest.NewServer(hc.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		status        healthcheck.Status
		allowDegraded bool
		want          int
	}{
		{"healthy", healthcheck.StatusHealthy, false, exitCodeSuccess},
		{"degraded allowed", healthcheck.StatusDegraded, true, exitCodeSuccess},
		{"degraded rejected", healthcheck.StatusDegraded, false, exitCodeFailure},
		{"unhealthy", healthcheck.StatusUnhealthy, true, exitCodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := run(context.Background(), Options{
				URL:          probeServer(t, tt.status),
				Timeout:      time.Second,
				AllowDegrade: tt.allowDegraded,
			}, &out)

			assert.Equal(t, tt.want, code)
			assert.Contains(t, out.String(), "version 1.2.3")
			assert.Contains(t, out.String(), "database")
		})
	}
}

func TestRun_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), Options{
		URL:          probeServer(t, healthcheck.StatusHealthy),
		Timeout:      time.Second,
		OutputFormat: "json",
	}, &out)

	assert.Equal(t, exitCodeSuccess, code)
	assert.Contains(t, out.String(), `"status": "healthy"`)
}

func TestRun_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	code := run(context.Background(), Options{URL: srv.URL, Timeout: 100 * time.Millisecond, RetryCount: 1, RetryDelay: time.Millisecond}, &bytes.Buffer{})

	assert.Equal(t, exitCodeError, code)
}
