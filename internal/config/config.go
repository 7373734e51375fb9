package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Storage selects the teacher registry backend
	Storage StorageConfig
	// Audit contains audit log retention settings
	Audit AuditConfig
	// Log contains logger settings
	Log LogConfig
	// RateLimit contains per-IP request limits
	RateLimit RateLimitConfig
	// PinRateLimit is the stricter per-IP limit on PIN validation
	PinRateLimit RateLimitConfig
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// StorageConfig selects where teacher records and audit logs live
type StorageConfig struct {
	// Driver is either "memory" or "postgres"
	Driver string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// AdminSecret signs the bearer tokens accepted on admin-only routes
	AdminSecret string
	// PinHashAlgorithm is "sha256" (fixed salt, legacy compatible) or "bcrypt"
	PinHashAlgorithm string
	// BcryptCost is used when PinHashAlgorithm is "bcrypt"
	BcryptCost int
}

// AuditConfig contains audit log retention settings
type AuditConfig struct {
	// RetentionDays is how long audit entries are kept; 0 disables cleanup
	RetentionDays int
	// CleanupSchedule is a cron spec for the retention job
	CleanupSchedule string
}

// LogConfig contains logger settings
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string
	// Format is "json" or "console"
	Format string
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Requests int // Number of requests allowed per window
	Window   int // Time window in seconds
	Burst    int // Maximum burst size
}

// RetentionPeriod returns the audit retention as a duration
func (a AuditConfig) RetentionPeriod() time.Duration {
	return time.Duration(a.RetentionDays) * 24 * time.Hour
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "teacherpin"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("DB_MIGRATIONS_PATH", "migrations"),
	}
	c.Storage = StorageConfig{
		Driver: getEnvOrDefault("STORAGE_DRIVER", "postgres"),
	}
	c.Auth = AuthConfig{
		AdminSecret:      os.Getenv("ADMIN_JWT_SECRET"),
		PinHashAlgorithm: getEnvOrDefault("PIN_HASH_ALGORITHM", "sha256"),
		BcryptCost:       getEnvAsInt("PIN_BCRYPT_COST", 10),
	}
	c.Audit = AuditConfig{
		RetentionDays:   getEnvAsInt("AUDIT_RETENTION_DAYS", 365),
		CleanupSchedule: getEnvOrDefault("AUDIT_CLEANUP_SCHEDULE", "0 3 * * *"),
	}
	c.Log = LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)
	c.PinRateLimit.Requests = getEnvAsInt("PIN_RATE_LIMIT_REQUESTS", 10)
	c.PinRateLimit.Window = getEnvAsInt("PIN_RATE_LIMIT_WINDOW", 60)
	c.PinRateLimit.Burst = getEnvAsInt("PIN_RATE_LIMIT_BURST", 5)

	// Validate required fields
	if c.Auth.AdminSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
