package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *PrometheusMiddleware, *prometheus.Registry, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMiddleware("test", reg)

	r := gin.New()
	r.Use(NewRequestLogger(logging.NewWriterLogger("api", &buf, logging.INFO)).Handler())
	r.Use(pm.Handler())
	RegisterMetricsEndpoint(r, reg)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/fail", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })
	return r, pm, reg, &buf
}

func TestRequestLogger_SetsTraceID(t *testing.T) {
	r, _, _, buf := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	traceID := w.Header().Get("X-Trace-Id")
	assert.Len(t, traceID, 36, "без otel используется UUID")
	assert.Contains(t, buf.String(), "/ok 200")
	assert.Contains(t, buf.String(), traceID)
}

func TestPrometheusMiddleware_CountsErrors(t *testing.T) {
	r, pm, reg, _ := newRouter(t)

	for _, path := range []string{"/ok", "/fail", "/fail", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", "/fail", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(pm.reqInflight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_request_duration_seconds")

	count, err := testutil.GatherAndCount(reg, "test_http_request_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
