package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP derives the client identity used as the rate-limit key:
// leftmost X-Forwarded-For value, then X-Real-IP, then the transport peer
// address, then "unknown". The identity is not assumed globally unique.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := extractClientIP(c.Request)

		c.Set("client_ip", ip)

		ctx := context.WithValue(c.Request.Context(), ctxKeyClientIP, ip)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		addr = addr[:idx]
	}
	addr = strings.Trim(addr, "[]")
	if addr == "" {
		return "unknown"
	}
	return addr
}

// ClientIPFromContext returns the derived identity, or "unknown".
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return "unknown"
}
