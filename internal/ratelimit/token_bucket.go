package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// tokenBucketScript refills from the server clock so every API replica shares
// one bucket per key.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  tokens = math.min(burst, tokens + (delta / 1000) * rate)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

-- integers only survive the trip back, so scale tokens to thousandths
return {allowed, math.floor(tokens * 1000), ts}
`

var (
	ErrNotConfigured = errors.New("rate limiter not configured")
	ErrInvalidBucket = errors.New("invalid rate limit bucket")
)

type TokenBucket struct {
	client redis.Scripter
	script *redis.Script
}

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

func NewTokenBucket(client redis.Scripter) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{
		client: client,
		script: redis.NewScript(tokenBucketScript),
	}
}

// Allow takes one token from key. rate is in tokens per second.
func (t *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (Result, error) {
	if t == nil || t.client == nil {
		return Result{}, ErrNotConfigured
	}
	if key == "" || rate <= 0 || burst <= 0 {
		return Result{}, ErrInvalidBucket
	}

	ttl := defaultBucketTTL(rate, burst)
	res, err := t.script.Run(ctx, t.client, []string{key}, rate, burst, int64(ttl/time.Millisecond)).Slice()
	if err != nil {
		return Result{}, err
	}
	return parseResult(res, rate, burst)
}

func parseResult(res []interface{}, rate float64, burst int) (Result, error) {
	if len(res) < 3 {
		return Result{}, errors.New("invalid rate limit script response")
	}

	allowed := castToInt(res[0]) == 1
	tokens := float64(castToInt(res[1])) / 1000

	var retryAfter time.Duration
	if !allowed {
		if needed := 1 - tokens; needed > 0 {
			retryAfter = time.Duration(math.Ceil(needed / rate * float64(time.Second)))
		}
	}

	return Result{
		Allowed:    allowed,
		Limit:      burst,
		Remaining:  int(tokens),
		RetryAfter: retryAfter,
	}, nil
}

// defaultBucketTTL keeps an idle bucket around for two full refills.
func defaultBucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	seconds := math.Ceil((float64(burst) / rate) * 2)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

func castToInt(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
