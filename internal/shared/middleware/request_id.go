package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID attaches a fresh correlation id to every request. The id is
// surfaced in the X-Request-ID response header and woven into every log line
// the request produces.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()

		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(c.Request.Context(), ctxKeyRequestID, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyClientIP  ctxKey = "client_ip"
)

// RequestIDFromContext returns the correlation id, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}
