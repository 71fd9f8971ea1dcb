package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCollector_Discovery(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.ObserveSearch("success", 4, 300*time.Millisecond)
	m.ObserveSearch("failed", 0, 10*time.Millisecond)
	m.ObserveSearch("success", 2, 100*time.Millisecond)
	m.ObserveEnrichment("details", "success")
	m.ObserveEnrichment("drink", "degraded")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searchesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrichmentsTotal.WithLabelValues("drink", "degraded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.enrichmentsTotal.WithLabelValues("dessert", "success")))
}

func TestMetricsCollector_Upstream(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.ObserveUpstreamCall("spoonacular", "findByIngredients", 200, 50*time.Millisecond)
	m.ObserveUpstreamCall("spoonacular", "findByIngredients", 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCallsTotal.WithLabelValues("spoonacular", "findByIngredients", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCallsTotal.WithLabelValues("spoonacular", "findByIngredients", "0")))
}

func TestMetricsCollector_Handler(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	m.RecordHTTPRequest(http.MethodPost, "/api/v1/recipes/search", 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `recipe_explorer_http_requests_total{method="POST",route="/api/v1/recipes/search",status_code="200"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetricsCollector(zap.NewNop())
		NewMetricsCollector(zap.NewNop())
	})
}

func TestTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(TracingConfig{ServiceName: "recipe-explorer"}, zap.NewNop())

	require.NoError(t, err)
	assert.False(t, tp.Enabled())
	assert.NotNil(t, tp.Tracer())
	assert.NoError(t, tp.Shutdown(context.Background()))
}
