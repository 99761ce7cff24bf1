package middleware

import (
	"fmt"

	"augustlab-backend/internal/shared/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("error", err).
					Msg("Panic recovered")

				apierror.Write(c, apierror.Database("internal server error", fmt.Errorf("panic: %v", err)))
			}
		}()

		c.Next()
	}
}
