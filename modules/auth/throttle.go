package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThrottleConfig bounds failed sign-in attempts per email.
type ThrottleConfig struct {
	MaxFailures int
	Window      time.Duration
}

// SignInThrottle counts failed sign-ins in a sliding window.
type SignInThrottle interface {
	// Blocked reports whether the key reached the failure limit, and for
	// how long it stays blocked.
	Blocked(ctx context.Context, key string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Failures are members of a sorted set scored by timestamp. Entries older
// than the window are trimmed on every call.
var recordFailureScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local window_ms = tonumber(ARGV[3])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local counter = redis.call('INCR', counter_key)
	redis.call('ZADD', key, now, now .. ':' .. counter)
	redis.call('PEXPIRE', key, window_ms)
	redis.call('PEXPIRE', counter_key, window_ms)
	return redis.call('ZCARD', key)
`)

var blockedScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)
	if count < limit then
		return {0, 0}
	end
	local oldest = redis.call('ZRANGE', key, count - limit, count - limit, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = oldest[2] + window_ms - now
	end
	return {1, retry_after}
`)

// RedisThrottle is a sliding window sign-in throttle stored in Redis.
type RedisThrottle struct {
	client *redis.Client
	config ThrottleConfig
	prefix string
}

// NewRedisThrottle creates a throttle. Zero values default to 5 failures
// per 15 minutes.
func NewRedisThrottle(client *redis.Client, config ThrottleConfig, prefix string) *RedisThrottle {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Window <= 0 {
		config.Window = 15 * time.Minute
	}
	return &RedisThrottle{
		client: client,
		config: config,
		prefix: prefix + "signin:",
	}
}

// Blocked reports whether key has MaxFailures failures inside the window.
func (t *RedisThrottle) Blocked(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	result, err := blockedScript.Run(ctx, t.client, []string{t.prefix + key},
		now.UnixMilli(),
		now.Add(-t.config.Window).UnixMilli(),
		t.config.MaxFailures,
		t.config.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("failed to run throttle script: %w", err)
	}
	if len(result) < 2 {
		return false, 0, fmt.Errorf("unexpected result length: %d", len(result))
	}
	return result[0] == 1, time.Duration(result[1]) * time.Millisecond, nil
}

// RecordFailure adds a failed attempt for key.
func (t *RedisThrottle) RecordFailure(ctx context.Context, key string) error {
	now := time.Now()
	redisKey := t.prefix + key
	err := recordFailureScript.Run(ctx, t.client, []string{redisKey, redisKey + ":counter"},
		now.UnixMilli(),
		now.Add(-t.config.Window).UnixMilli(),
		t.config.Window.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to record sign-in failure: %w", err)
	}
	return nil
}

// Reset clears the failures of key after a successful sign-in.
func (t *RedisThrottle) Reset(ctx context.Context, key string) error {
	redisKey := t.prefix + key
	if err := t.client.Del(ctx, redisKey, redisKey+":counter").Err(); err != nil {
		return fmt.Errorf("failed to reset sign-in failures: %w", err)
	}
	return nil
}
