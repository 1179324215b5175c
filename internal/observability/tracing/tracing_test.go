package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSafeAttributesDropsSensitiveKeys(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/emissions"),
		attribute.String("user.email", "a@b.c"),
		attribute.String("evidence.text", "facture EDF"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorKeepsFirstLine(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.Equal(t, "db down", SafeError(errors.New("db down\nstack...")).Error())
}

func TestGinMiddlewareRecordsServerSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/emissions", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/emissions", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET /api/emissions", spans[0].Name())
	assert.Len(t, spans[0].Events(), 1)
}
