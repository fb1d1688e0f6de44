package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cozyGarage/ft-transcendence/pkg/logger"
	"github.com/cozyGarage/ft-transcendence/pkg/ratelimit"
)

// RateLimitConfig 인프로세스 Rate Limit 설정
type RateLimitConfig struct {
	Capacity   int64                     // Maximum number of requests
	RefillRate int64                     // Requests per second
	KeyFunc    func(*gin.Context) string // Function to extract rate limit key
}

// RedisRateLimitConfig Redis 기반 Rate Limit 설정 (인스턴스 간 공유)
type RedisRateLimitConfig struct {
	Limiter *ratelimit.RedisLimiter
	Limit   int                       // 윈도우 내 최대 요청 수
	Window  time.Duration             // 윈도우 크기
	KeyFunc func(*gin.Context) string // 키 추출 함수
}

// IPKeyFunc uses only IP address (for public endpoints)
func IPKeyFunc(c *gin.Context) string {
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// RateLimit 인프로세스 토큰 버킷 미들웨어
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	limiter := ratelimit.NewLimiter(config.Capacity, config.RefillRate)

	if config.KeyFunc == nil {
		config.KeyFunc = IPKeyFunc
	}

	return func(c *gin.Context) {
		if !limiter.Allow(config.KeyFunc(c)) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedisRateLimit Redis 공유 카운터 미들웨어. Redis 장애 시에는
// 요청을 막지 않는다 (fail-open, 로깅만).
func RedisRateLimit(config RedisRateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = IPKeyFunc
	}

	return func(c *gin.Context) {
		allowed, err := config.Limiter.Allow(
			c.Request.Context(),
			config.KeyFunc(c),
			config.Limit,
			config.Window,
		)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
