package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type AdminConfig struct {
	Username string
	Password string
}

type SessionConfig struct {
	ExpireHours int
}

type RateLimitConfig struct {
	Requests      int // general class: max requests per window
	WindowSeconds int
	LoginRequests int // login class: max attempts per login window
	LoginWindow   int
}

type UploadConfig struct {
	UploadDir     string // image uploads live under <UploadDir>/images
	ProductsDir   string // one subdirectory per product id
	MaxImageSize  int64  // bytes, authoritative cap for /api/upload/image
	MaxBundleSize int64  // bytes, uncompressed cap for product bundles
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "August Lab API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8001"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "august_lab"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Session: SessionConfig{
			ExpireHours: getEnvInt("SESSION_EXPIRE_HOURS", 24),
		},
		RateLimit: RateLimitConfig{
			Requests:      getEnvInt("RATE_LIMIT_REQUESTS", 100),
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW", 3600),
			LoginRequests: getEnvInt("RATE_LIMIT_LOGIN_REQUESTS", 10),
			LoginWindow:   getEnvInt("RATE_LIMIT_LOGIN_WINDOW", 3600),
		},
		Upload: UploadConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
			ProductsDir:   getEnv("PRODUCTS_DIR", "./products"),
			MaxImageSize:  getEnvInt64("MAX_IMAGE_SIZE", 5*1024*1024),
			MaxBundleSize: getEnvInt64("MAX_BUNDLE_SIZE", 100*1024*1024),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate enforces constraints that only matter in production.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Admin.Password == "admin123" {
			return fmt.Errorf("ADMIN_PASSWORD must be changed in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		for _, origin := range c.CORS.AllowedOrigins {
			if strings.Contains(origin, "localhost") {
				return fmt.Errorf("ALLOWED_ORIGINS must not contain localhost in production")
			}
		}
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit config must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
