package middleware

import (
	"context"
	"strings"

	"augustlab-backend/internal/shared/apierror"

	"github.com/gin-gonic/gin"
)

// TokenVerifier proves that a bearer token names a live principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (principal string, err error)
}

// Auth guards protected routes. A missing, malformed, unknown, expired or
// revoked token uniformly yields 401 AUTHENTICATION_ERROR; the response never
// reveals which of those it was. 403 is reserved for live principals lacking
// a capability.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierror.Write(c, apierror.Authentication("invalid or missing access token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			apierror.Write(c, apierror.Authentication("invalid or missing access token"))
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			apierror.Write(c, apierror.Authentication("invalid or missing access token"))
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}
