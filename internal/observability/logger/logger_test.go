package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/airnex/internal/companycontext"
	obscontext "github.com/smallbiznis/airnex/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = companycontext.WithCompanyID(ctx, snowflake.ID(42))
	ctx = companycontext.WithUserID(ctx, "user-7")

	WithContext(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "42", fields["company_id"])
	assert.Equal(t, "user-7", fields["user_id"])
}

func TestGinMiddlewarePropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(GinMiddleware(zap.New(core), MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		assert.Equal(t, "abc", obscontext.RequestIDFromContext(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/ping", entries[0].ContextMap()["route"])
	assert.EqualValues(t, http.StatusNoContent, entries[0].ContextMap()["status"])
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinMiddleware(zap.NewNop(), MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}
