package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"garden-assistant/internal/pkg/common"
)

// RateLimiter 全域令牌桶：window 內最多 requests 次，令牌依比例持續補充
type RateLimiter struct {
	limiter *rate.Limiter
	refill  time.Duration
	now     func() time.Time
}

// NewRateLimiter 建立限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return newRateLimiter(requests, window, time.Now)
}

func newRateLimiter(requests int, window time.Duration, now func() time.Time) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	refill := window / time.Duration(requests)
	limiter := rate.NewLimiter(rate.Every(refill), requests)
	// 以注入的時鐘作為起點，桶子一開始是滿的
	limiter.SetLimitAt(now(), rate.Every(refill))
	return &RateLimiter{limiter: limiter, refill: refill, now: now}
}

// Allow 取用一個令牌
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.AllowN(rl.now(), 1)
}

// RetryAfter 補回一個令牌所需的秒數
func (rl *RateLimiter) RetryAfter() int {
	return int(math.Ceil(rl.refill.Seconds()))
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return rateLimit(NewRateLimiter(requests, window))
}

func rateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow() {
			c.Next()
			return
		}

		retry := limiter.RetryAfter()
		common.LogInfo("Rate limit exceeded",
			zap.String("ip", c.ClientIP()),
			zap.String("route", c.FullPath()),
		)
		c.Header("Retry-After", fmt.Sprintf("%d", retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
			Code:    common.ErrCodeTooManyRequests,
			Message: "Too many requests",
			Details: fmt.Sprintf("retry after %ds", retry),
		})
	}
}
