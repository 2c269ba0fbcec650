package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordRateLimit(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegisterer(registry, registry)

	m.RecordRateLimit(true)
	m.RecordRateLimit(true)
	m.RecordRateLimit(false)

	body := scrape(t, m)
	assert.Contains(t, body, `orders_rate_limit_decisions_total{outcome="allowed"} 2`)
	assert.Contains(t, body, `orders_rate_limit_decisions_total{outcome="rejected"} 1`)
}

func TestNewWithRegisterer_ReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewWithRegisterer(registry, registry)
	second := NewWithRegisterer(registry, registry)

	first.RecordAuthFailure("invalid_credentials")
	second.RecordAuthFailure("invalid_credentials")
	assert.Contains(t, scrape(t, second), `admin_auth_failures_total{reason="invalid_credentials"} 2`)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	engine := gin.New()
	engine.Use(m.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/ping",status="204"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRateLimit(true)
	m.RecordAuthFailure("x")
	assert.NotNil(t, m.Handler())
}
