package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nexora/webkit/pkg/ratelimiter"
)

// tokenBucketScript mirrors the in-memory token bucket algorithm
// (pkg/ratelimiter.MemoryStore) as a single atomic Redis operation, so a
// multi-instance deployment enforces one shared limit per key instead of one
// per process. State is kept in a hash of {tokens, last_refill_ms}.
//
// KEYS[1] = bucket key
// ARGV[1] = now (unix ms)
// ARGV[2] = tokens to consume
// ARGV[3] = capacity
// ARGV[4] = refill rate (tokens per interval)
// ARGV[5] = refill interval (ms)
//
// Returns {remaining, reset_at_ms}.
var tokenBucketScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local toConsume = tonumber(ARGV[2])
local capacity = tonumber(ARGV[3])
local refillRate = tonumber(ARGV[4])
local intervalMs = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local lastRefill = tonumber(state[2])

if tokens == nil then
	tokens = capacity
	lastRefill = now
end

local maxIntervals = math.floor(capacity / refillRate) + 1
local elapsed = now - lastRefill
local intervalsElapsed = math.min(math.floor(elapsed / intervalMs), maxIntervals)

if intervalsElapsed > 0 then
	tokens = math.min(tokens + intervalsElapsed * refillRate, capacity)
	lastRefill = now
end

tokens = tokens - toConsume

redis.call('HSET', key, 'tokens', tokens, 'last_refill', lastRefill)
redis.call('PEXPIRE', key, maxIntervals * intervalMs)

return {tokens, lastRefill + intervalMs}
`)

// RateLimitStore implements ratelimiter.Store on a Redis client, sharing
// bucket state across every process pointed at the same keyspace.
type RateLimitStore struct {
	client *goredis.Client
	prefix string
}

// NewRateLimitStore wraps client as a ratelimiter.Store, namespacing keys
// under prefix (e.g. "ratelimit:") to avoid collisions with unrelated keys.
func NewRateLimitStore(client *goredis.Client, prefix string) *RateLimitStore {
	return &RateLimitStore{client: client, prefix: prefix}
}

func (s *RateLimitStore) key(key string) string {
	return s.prefix + key
}

// ConsumeTokens atomically applies the token bucket algorithm for key via
// tokenBucketScript, matching pkg/ratelimiter.MemoryStore's semantics.
func (s *RateLimitStore) ConsumeTokens(ctx context.Context, key string, tokens int, config ratelimiter.Config) (int, time.Time, error) {
	res, err := tokenBucketScript.Run(ctx, s.client,
		[]string{s.key(key)},
		time.Now().UnixMilli(),
		tokens,
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := int(res[0])
	resetAt := time.UnixMilli(res[1])
	return remaining, resetAt, nil
}

// Reset deletes key's bucket hash, as an administrative override.
func (s *RateLimitStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
