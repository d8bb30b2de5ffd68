package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/httpx"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/ratelimit"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
)

type RateLimitMiddleware struct {
	log *logger.Logger
}

func NewRateLimitMiddleware(log *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{log: log.With("middleware", "RateLimitMiddleware")}
}

// Limit enforces a fixed-window limit keyed on the authenticated user,
// falling back to client ip for anonymous routes. A store failure lets
// the request through.
func (rm *RateLimitMiddleware) Limit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := requestIdentity(c)
		result, err := limiter.Check(c.Request.Context(), identity)
		if err != nil {
			rm.log.Warn("rate limit check failed, letting request through", "identity", identity, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate limit exceeded",
				"resetAt": result.ResetAt.UTC().Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}

func requestIdentity(c *gin.Context) string {
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		return fmt.Sprintf("user:%s", rd.UserID)
	}
	return fmt.Sprintf("ip:%s", httpx.ClientIP(c.Request))
}
