package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m, err := NewHTTPMetricsWithRegisterer(registry, Config{ServiceName: "airnex", Environment: "test"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/emissions", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/emissions", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/emissions", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "unknown", "404")))
}

func TestHTTPMetricsReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := NewHTTPMetricsWithRegisterer(registry, Config{})
	require.NoError(t, err)
	second, err := NewHTTPMetricsWithRegisterer(registry, Config{})
	require.NoError(t, err)

	first.requests.WithLabelValues("GET", "/x", "200").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(second.requests.WithLabelValues("GET", "/x", "200")))
}
