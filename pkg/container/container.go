package container

import (
	"context"
	"fmt"
	"time"

	"augustlab-backend/internal/config"
	"augustlab-backend/internal/domains/auth"
	authHandler "augustlab-backend/internal/domains/auth/handler"
	authRepo "augustlab-backend/internal/domains/auth/repository"
	authService "augustlab-backend/internal/domains/auth/service"
	"augustlab-backend/internal/domains/blog"
	blogHandler "augustlab-backend/internal/domains/blog/handler"
	blogRepo "augustlab-backend/internal/domains/blog/repository"
	blogService "augustlab-backend/internal/domains/blog/service"
	"augustlab-backend/internal/domains/portfolio"
	portfolioHandler "augustlab-backend/internal/domains/portfolio/handler"
	portfolioRepo "augustlab-backend/internal/domains/portfolio/repository"
	portfolioService "augustlab-backend/internal/domains/portfolio/service"
	"augustlab-backend/internal/domains/product"
	productHandler "augustlab-backend/internal/domains/product/handler"
	productRepo "augustlab-backend/internal/domains/product/repository"
	productService "augustlab-backend/internal/domains/product/service"
	"augustlab-backend/internal/domains/profile"
	profileHandler "augustlab-backend/internal/domains/profile/handler"
	profileRepo "augustlab-backend/internal/domains/profile/repository"
	profileService "augustlab-backend/internal/domains/profile/service"
	"augustlab-backend/internal/domains/upload"
	uploadHandler "augustlab-backend/internal/domains/upload/handler"
	infraCache "augustlab-backend/internal/infrastructure/cache"
	"augustlab-backend/internal/infrastructure/database"
	"augustlab-backend/internal/infrastructure/filestore"
	"augustlab-backend/internal/ratelimit"
	"augustlab-backend/pkg/cache"
	"augustlab-backend/pkg/logger"
)

// Container holds the application's dependency graph. Initialization order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config    *config.Config
	DB        *database.PostgresDB
	Cache     cache.Cache
	FileStore *filestore.Store
	Limiter   *ratelimit.Limiter
	Registry  *product.Registry

	AuthRepo      auth.Repository
	PortfolioRepo portfolio.Repository
	BlogRepo      blog.Repository
	ProfileRepo   profile.Repository
	ProductRepo   product.Repository

	AuthService      auth.Service
	PortfolioService portfolio.Service
	BlogService      blog.Service
	ProfileService   profile.Service
	ProductService   product.Service
	UploadService    *upload.Service

	AuthHandler      *authHandler.AuthHandler
	PortfolioHandler *portfolioHandler.PortfolioHandler
	BlogHandler      *blogHandler.BlogHandler
	ProfileHandler   *profileHandler.ProfileHandler
	ProductHandler   *productHandler.ProductHandler
	UploadHandler    *uploadHandler.UploadHandler
}

// NewContainer builds and connects the full dependency graph.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	db := database.NewPostgresDB(&cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(context.Background()); err != nil {
		// The cache is an accelerator for token verification, not a
		// dependency; the session table remains authoritative.
		logger.Warn("redis connection failed, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.Cache = redisCache

	c.FileStore = filestore.New(cfg.Upload.ProductsDir, cfg.Upload.MaxBundleSize)
	c.Registry = product.DefaultRegistry()
	c.Limiter = ratelimit.New(map[ratelimit.Class]ratelimit.Policy{
		ratelimit.ClassGeneral: {
			Limit:  cfg.RateLimit.Requests,
			Window: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		},
		ratelimit.ClassLogin: {
			Limit:  cfg.RateLimit.LoginRequests,
			Window: time.Duration(cfg.RateLimit.LoginWindow) * time.Second,
		},
	})

	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool
	c.AuthRepo = authRepo.NewPostgresRepository(pool)
	c.PortfolioRepo = portfolioRepo.NewPortfolioRepository(pool)
	c.BlogRepo = blogRepo.NewBlogRepository(pool)
	c.ProfileRepo = profileRepo.NewProfileRepository(pool)
	c.ProductRepo = productRepo.NewProductRepository(pool)
}

func (c *Container) initServices() error {
	pool := c.DB.Pool

	svc, err := authService.NewAuthService(
		c.AuthRepo,
		c.Cache,
		c.Config.Admin.Username,
		c.Config.Admin.Password,
		time.Duration(c.Config.Session.ExpireHours)*time.Hour,
	)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}
	c.AuthService = svc

	c.PortfolioService = portfolioService.NewPortfolioService(c.PortfolioRepo, pool)
	c.BlogService = blogService.NewBlogService(c.BlogRepo, pool)
	c.ProfileService = profileService.NewProfileService(c.ProfileRepo, pool)
	c.ProductService = productService.NewProductService(c.ProductRepo, pool, c.FileStore, c.Registry)
	c.UploadService = upload.NewService(c.Config.Upload.UploadDir, c.Config.Upload.MaxImageSize)
	return nil
}

func (c *Container) initHandlers() {
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService)
	c.PortfolioHandler = portfolioHandler.NewPortfolioHandler(c.PortfolioService)
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService)
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService, c.Config.Upload.MaxBundleSize)
	c.UploadHandler = uploadHandler.NewUploadHandler(c.UploadService, c.Config.Upload.MaxImageSize)
}

// Cleanup releases infrastructure resources during shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok && rc != nil {
		if err := rc.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	logger.Info("container cleanup completed", nil)
}
