package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLoadFromEnv tests loading configuration from environment variables
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test_secret_key")
	t.Setenv("DB_NAME", "teacherpin_test")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PIN_HASH_ALGORITHM", "bcrypt")
	t.Setenv("AUDIT_RETENTION_DAYS", "30")

	cfg := &Config{}
	err := cfg.LoadFromEnv()
	require.NoError(t, err)

	// Verify configuration values
	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "teacherpin_test", cfg.Database.DBName)
	require.Equal(t, "disable", cfg.Database.SSLMode)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Equal(t, "test_secret_key", cfg.Auth.AdminSecret)
	require.Equal(t, "bcrypt", cfg.Auth.PinHashAlgorithm)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, 30*24*time.Hour, cfg.Audit.RetentionPeriod())
	require.Equal(t, 1000, cfg.RateLimit.Requests)
	require.Equal(t, RateLimitConfig{Requests: 10, Window: 60, Burst: 5}, cfg.PinRateLimit)
}

func TestLoadFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "Missing Admin Secret",
			env:     map[string]string{"ADMIN_JWT_SECRET": ""},
			wantErr: "ADMIN_JWT_SECRET is required",
		},
		{
			name:    "Unknown Storage Driver",
			env:     map[string]string{"ADMIN_JWT_SECRET": "x", "STORAGE_DRIVER": "sqlite"},
			wantErr: "unsupported STORAGE_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := &Config{}
			err := cfg.LoadFromEnv()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
