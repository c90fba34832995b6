package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitIPTTL bounds how long an idle bucket lives in Redis.
const rateLimitIPTTL = 10 * time.Second

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	Limit      int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes in one atomic step.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit consumes one token from the bucket for ip.
// The IP is hashed so raw addresses are never stored.
// Callers decide what to do on error; the HTTP middleware fails open.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	now := time.Now()

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{c.key("ratelimit", "ip", hashIP(ip))},
		ratePerSecond, burst, now.Unix(), int(rateLimitIPTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, err
	}

	return bucketResult(res, ratePerSecond, burst, now), nil
}

// bucketResult converts the script reply {allowed, retry_after, remaining}.
func bucketResult(reply []int64, ratePerSecond, burst int, now time.Time) *RateLimitResult {
	result := &RateLimitResult{
		Limit:   burst,
		ResetAt: now.Add(refillInterval(ratePerSecond)),
	}
	if len(reply) != 3 {
		result.Allowed = true
		result.Remaining = int64(burst)
		return result
	}
	result.Allowed = reply[0] == 1
	result.RetryAfter = time.Duration(reply[1]) * time.Second
	result.Remaining = reply[2]
	return result
}

func refillInterval(ratePerSecond int) time.Duration {
	if ratePerSecond <= 0 {
		return time.Duration(math.MaxInt64)
	}
	return time.Second / time.Duration(ratePerSecond)
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
