package main

import (
	"context"
	"net/http"
	"time"

	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/internal/shared/middleware"
	"augustlab-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires the middleware chain and all routes. The chain order is
// fixed: recovery, request identity, rate limiting, then per-group auth.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.Metrics(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.RateLimit(c.Limiter),
	)

	router.NoRoute(func(ctx *gin.Context) {
		apierror.Write(ctx, apierror.NotFound("resource not found"))
	})
	router.NoMethod(func(ctx *gin.Context) {
		apierror.Write(ctx, apierror.MethodNotAllowed("method not allowed"))
	})

	router.GET("/health", healthHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded images are public once stored.
	router.Static("/uploads", c.Config.Upload.UploadDir)

	requireAuth := middleware.Auth(c.AuthService)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", c.AuthHandler.Login)
			authRoutes.GET("/verify", requireAuth, c.AuthHandler.Verify)
			authRoutes.POST("/logout", requireAuth, c.AuthHandler.Logout)
		}

		portfolioRoutes := api.Group("/portfolio")
		{
			portfolioRoutes.GET("", c.PortfolioHandler.List)
			portfolioRoutes.GET("/:id", c.PortfolioHandler.GetByID)
			portfolioRoutes.POST("", requireAuth, c.PortfolioHandler.Create)
			portfolioRoutes.PUT("/:id", requireAuth, c.PortfolioHandler.Update)
			portfolioRoutes.DELETE("/:id", requireAuth, c.PortfolioHandler.Delete)
		}

		blogRoutes := api.Group("/blog")
		{
			blogRoutes.GET("", c.BlogHandler.List)
			blogRoutes.GET("/:id", c.BlogHandler.GetByID)
			blogRoutes.GET("/admin", requireAuth, c.BlogHandler.ListAdmin)
			blogRoutes.GET("/admin/:id", requireAuth, c.BlogHandler.GetAdmin)
			blogRoutes.POST("", requireAuth, c.BlogHandler.Create)
			blogRoutes.PUT("/:id", requireAuth, c.BlogHandler.Update)
			blogRoutes.DELETE("/:id", requireAuth, c.BlogHandler.Delete)
		}

		profileRoutes := api.Group("/profile")
		{
			profileRoutes.GET("", c.ProfileHandler.Get)
			profileRoutes.PUT("", requireAuth, c.ProfileHandler.Update)
		}

		productRoutes := api.Group("/products")
		{
			productRoutes.GET("", c.ProductHandler.List)
			productRoutes.GET("/admin", requireAuth, c.ProductHandler.ListAdmin)
			productRoutes.GET("/:id", c.ProductHandler.GetByID)
			productRoutes.GET("/:id/files", c.ProductHandler.Files)
			productRoutes.GET("/:id/verify", c.ProductHandler.Verify)
			productRoutes.GET("/:id/launch", c.ProductHandler.LaunchConfig)
			productRoutes.POST("", requireAuth, c.ProductHandler.Create)
			productRoutes.PUT("/:id", requireAuth, c.ProductHandler.Update)
			productRoutes.DELETE("/:id", requireAuth, c.ProductHandler.Delete)
			productRoutes.POST("/:id/upload", requireAuth, c.ProductHandler.Upload)
		}

		uploadRoutes := api.Group("/upload")
		uploadRoutes.Use(requireAuth)
		{
			uploadRoutes.POST("/image", c.UploadHandler.UploadImage)
			uploadRoutes.DELETE("/image/:filename", c.UploadHandler.DeleteImage)
		}
	}

	return router
}

func healthHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "connected"
		status := "healthy"
		statusCode := http.StatusOK

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "disconnected"
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
