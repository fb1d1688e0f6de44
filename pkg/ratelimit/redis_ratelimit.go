package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter Redis 기반 분산 Rate Limiter (고정 윈도우 카운터)
//
// 로그인/가입처럼 여러 인스턴스가 공유해야 하는 제한에 사용한다.
// 인프로세스 Limiter는 인스턴스별로만 유효하다.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisLimiter Redis Rate Limiter 생성
func NewRedisLimiter(client *redis.Client, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// 카운터 증가와 TTL 설정을 원자적으로 수행
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('PEXPIRE', key, window)
	end

	if count > limit then
		return 0
	end
	return 1
`)

// Allow 윈도우 내 요청 허용 여부 확인
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := r.keyPrefix + key

	res, err := allowScript.Run(ctx, r.client, []string{redisKey},
		limit, window.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script failed: %w", err)
	}

	return res == 1, nil
}

// Reset 키의 카운터 제거 (테스트용)
func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.keyPrefix+key).Err()
}
