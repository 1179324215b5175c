package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/airnex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestParseResult(t *testing.T) {
	res, err := parseResult([]interface{}{int64(1), int64(4500), int64(1700000000000)}, 0.5, 10)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, 10, res.Limit)
	assert.Zero(t, res.RetryAfter)

	res, err = parseResult([]interface{}{int64(0), int64(250), int64(1700000000000)}, 0.5, 10)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 1500*time.Millisecond, res.RetryAfter)

	_, err = parseResult([]interface{}{int64(1)}, 1, 1)
	assert.Error(t, err)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 40*time.Second, defaultBucketTTL(0.5, 10))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
}

func TestTokenBucketRequiresClient(t *testing.T) {
	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, NewTokenBucket(nil))
}

func TestAILimiterWithoutRedisAllowsEverything(t *testing.T) {
	limiter := NewAILimiter(Params{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    config.Config{RateLimitAIPerMin: 1},
		Log:       zap.NewNop(),
	})

	assert.False(t, limiter.Enabled())
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(context.Background(), "42", "extract").Allowed)
	}
}
