package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/airnex/internal/config"
	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyAICompanyEndpoint = "airnex:ai:%s:%s"

// AILimiter paces the endpoints that call the language model, per company
// and endpoint. Without a redis address it allows everything.
type AILimiter struct {
	bucket  *TokenBucket
	rate    float64
	burst   int
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

func NewAILimiter(p Params) *AILimiter {
	log := p.Log.Named("ratelimit")
	limiter := &AILimiter{log: log, metrics: p.Metrics}

	addr := strings.TrimSpace(p.Config.RedisAddr)
	if addr == "" || p.Config.RateLimitAIPerMin <= 0 {
		log.Info("ai rate limiting disabled")
		return limiter
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: p.Config.RedisPassword,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	limiter.bucket = NewTokenBucket(client)
	limiter.rate = float64(p.Config.RateLimitAIPerMin) / 60
	limiter.burst = p.Config.RateLimitAIPerMin
	return limiter
}

func (l *AILimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow spends one token for the company on endpoint. A redis failure lets
// the request through and is logged.
func (l *AILimiter) Allow(ctx context.Context, companyID, endpoint string) Result {
	if !l.Enabled() {
		return Result{Allowed: true}
	}

	key := fmt.Sprintf(keyAICompanyEndpoint, strings.TrimSpace(companyID), strings.TrimSpace(endpoint))
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return Result{Allowed: true, Limit: l.burst}
	}
	if !res.Allowed {
		l.metrics.RecordRateLimitDenied(ctx, endpoint)
	}
	return res
}
