package middleware

import (
	"fmt"
	"strconv"

	"augustlab-backend/internal/ratelimit"
	"augustlab-backend/internal/shared/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateLimit applies the sliding-window limiter. Rejection is an in-band 429
// response with the standard envelope, never a panic through the stack.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		class := ratelimit.ClassifyPath(c.Request.Method, c.Request.URL.Path)
		if class == ratelimit.ClassUnrestricted {
			c.Next()
			return
		}

		identity := c.GetString("client_ip")
		if identity == "" {
			identity = "unknown"
		}

		res := limiter.Allow(identity, class)
		if res.Limit >= 0 {
			c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			c.Writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))
		}

		if !res.Allowed {
			retryAfter := int64(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Writer.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))

			log.Warn().
				Str("request_id", c.GetString("request_id")).
				Str("identity", identity).
				Str("class", string(class)).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")

			apierror.Write(c, apierror.TooManyRequests(
				fmt.Sprintf("too many requests, retry after %d seconds", retryAfter)))
			return
		}

		c.Next()
	}
}
