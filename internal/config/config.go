package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// RateLimitPolicy binds a limit to a window for one class of sensitive
// operation.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authorizer configuration
	AuthzURL        string
	AuthzClientID   string
	AuthzRedirectTo string

	// Catalog cache TTL for search responses
	CatalogCacheTTL time.Duration

	// Rate-limit bindings for auth endpoints
	RegisterLimit RateLimitPolicy
	LoginLimit    RateLimitPolicy
	ResetLimit    RateLimitPolicy
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
		AuthzRedirectTo:   getEnv("AUTHZ_REDIRECT_TO", ""),
		CatalogCacheTTL:   getEnvAsDuration("CATALOG_CACHE_TTL", 24*time.Hour),
		RegisterLimit: RateLimitPolicy{
			Limit:  getEnvAsInt("RATE_REGISTER_LIMIT", 5),
			Window: getEnvAsDuration("RATE_REGISTER_WINDOW", 60*time.Second),
		},
		LoginLimit: RateLimitPolicy{
			Limit:  getEnvAsInt("RATE_LOGIN_LIMIT", 5),
			Window: getEnvAsDuration("RATE_LOGIN_WINDOW", 900*time.Second),
		},
		ResetLimit: RateLimitPolicy{
			Limit:  getEnvAsInt("RATE_RESET_LIMIT", 3),
			Window: getEnvAsDuration("RATE_RESET_WINDOW", 900*time.Second),
		},
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.AuthzURL == "" {
		return nil, fmt.Errorf("AUTHZ_URL is required")
	}
	if cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
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

// getEnvAsDuration gets an environment variable as a duration or returns a
// default value. Accepts Go duration strings ("24h", "900s").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
