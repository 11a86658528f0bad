package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/panpapadopoulos/cooking/internal/pkg/common"
	"github.com/panpapadopoulos/cooking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewLimiter allows requests per window with a burst of the full window.
func NewLimiter(requests int, window time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(requests)/window.Seconds()), requests)
}

// RateLimit rejects requests once the shared token bucket is empty.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	retryAfter := "1"
	if l := limiter.Limit(); l > 0 && l != rate.Inf {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(l))))
	}

	return func(c *gin.Context) {
		if !limiter.Allow() {
			metrics.RateLimitRejects.Inc()
			common.LogInfo("rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: common.ErrTooManyRequests.Message,
			})
			return
		}

		c.Next()
	}
}
