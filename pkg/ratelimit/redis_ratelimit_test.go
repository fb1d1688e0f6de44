package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisLimiter 테스트용 RedisLimiter 설정
// 주의: 실제 Redis 서버가 필요합니다 (localhost:6379)
func setupRedisLimiter(t *testing.T) *RedisLimiter {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // 테스트용 DB
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis server not available: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return NewRedisLimiter(client, "test:ratelimit:")
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	limiter := setupRedisLimiter(t)

	ctx := context.Background()
	key := "user:window"
	defer limiter.Reset(ctx, key)

	limit := 3
	window := time.Minute

	t.Run("제한 내 요청은 모두 허용", func(t *testing.T) {
		for i := 0; i < limit; i++ {
			allowed, err := limiter.Allow(ctx, key, limit, window)
			require.NoError(t, err)
			assert.True(t, allowed, "Request %d should be allowed", i+1)
		}
	})

	t.Run("제한 초과 요청은 거부", func(t *testing.T) {
		allowed, err := limiter.Allow(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestRedisLimiter_WindowExpiry(t *testing.T) {
	limiter := setupRedisLimiter(t)

	ctx := context.Background()
	key := "user:expiry"
	defer limiter.Reset(ctx, key)

	limit := 1
	window := 500 * time.Millisecond

	allowed, err := limiter.Allow(ctx, key, limit, window)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, key, limit, window)
	require.NoError(t, err)
	assert.False(t, allowed, "window exhausted")

	time.Sleep(600 * time.Millisecond)

	allowed, err = limiter.Allow(ctx, key, limit, window)
	require.NoError(t, err)
	assert.True(t, allowed, "new window after expiry")
}

func TestRedisLimiter_Reset(t *testing.T) {
	limiter := setupRedisLimiter(t)

	ctx := context.Background()
	key := "user:reset"

	limit := 1
	window := time.Minute

	limiter.Allow(ctx, key, limit, window)
	allowed, err := limiter.Allow(ctx, key, limit, window)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err = limiter.Allow(ctx, key, limit, window)
	require.NoError(t, err)
	assert.True(t, allowed, "counter cleared by reset")
}

func TestRedisLimiter_MultipleKeys(t *testing.T) {
	limiter := setupRedisLimiter(t)

	ctx := context.Background()
	key1 := "user:multi1"
	key2 := "user:multi2"
	defer limiter.Reset(ctx, key1)
	defer limiter.Reset(ctx, key2)

	limit := 1
	window := time.Minute

	limiter.Allow(ctx, key1, limit, window)
	allowed, err := limiter.Allow(ctx, key1, limit, window)
	require.NoError(t, err)
	assert.False(t, allowed, "key1 should be limited")

	allowed, err = limiter.Allow(ctx, key2, limit, window)
	require.NoError(t, err)
	assert.True(t, allowed, "key2 has its own counter")
}

func TestRedisLimiter_ConcurrentRequests(t *testing.T) {
	limiter := setupRedisLimiter(t)

	ctx := context.Background()
	key := "user:concurrent"
	defer limiter.Reset(ctx, key)

	limit := 10
	window := time.Minute
	concurrency := 20

	results := make(chan bool, concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			allowed, _ := limiter.Allow(ctx, key, limit, window)
			results <- allowed
		}()
	}

	allowedCount := 0
	for i := 0; i < concurrency; i++ {
		if <-results {
			allowedCount++
		}
	}

	// INCR이 원자적이므로 정확히 limit 만큼만 허용된다
	assert.Equal(t, limit, allowedCount)
}
