package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/services"
)

// Rate limit response headers.
const (
	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
	RateLimitResetHeader     = "X-RateLimit-Reset"
)

// RateLimit rejects callers that exceed the limiter's allowance with 429.
// Authenticated callers are counted per user and anonymous ones per client IP;
// the session header is client controlled and is not used as a key.
func RateLimit(limiter services.RateLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerKey := rateLimitCaller(c)

		allowed, info, err := limiter.Allow(c.Request.Context(), callerKey)
		if err != nil {
			logger.WithError(err).WithField("caller", callerKey).Warn("Rate limiter unavailable")
		}
		if info != nil {
			c.Header(RateLimitLimitHeader, strconv.Itoa(info.Limit))
			c.Header(RateLimitRemainingHeader, strconv.Itoa(info.Remaining))
			c.Header(RateLimitResetHeader, strconv.FormatInt(info.ResetTime, 10))
		}

		if !allowed {
			logger.WithFields(logrus.Fields{
				"caller":     callerKey,
				"request_id": GetRequestID(c),
			}).Info("Rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many recommendation requests, try again later",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitCaller(c *gin.Context) string {
	if userID, ok := GetUserFromContext(c); ok {
		return "user:" + userID.String()
	}
	return "ip:" + c.ClientIP()
}
