package main

import (
	"teacherpin/internal/auth"
	"teacherpin/internal/config"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_ConfigErrors(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			API:       config.APIConfig{Port: "8080"},
			Storage:   config.StorageConfig{Driver: "memory"},
			Auth:      config.AuthConfig{AdminSecret: "test_secret_key", PinHashAlgorithm: "sha256"},
			Audit:     config.AuditConfig{RetentionDays: 30, CleanupSchedule: "0 3 * * *"},
			RateLimit: config.RateLimitConfig{Requests: 10, Window: 60, Burst: 5},
		}
	}

	tests := []struct {
		name    string
		modify  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:    "Unknown Hash Algorithm",
			modify:  func(cfg *config.Config) { cfg.Auth.PinHashAlgorithm = "md5" },
			wantErr: `unknown PIN hash algorithm "md5"`,
		},
		{
			name: "Bcrypt Cost Out Of Range",
			modify: func(cfg *config.Config) {
				cfg.Auth.PinHashAlgorithm = "bcrypt"
				cfg.Auth.BcryptCost = 99
			},
			wantErr: "invalid bcrypt cost 99",
		},
		{
			name:    "Invalid Port",
			modify:  func(cfg *config.Config) { cfg.API.Port = "http" },
			wantErr: "invalid port number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(cfg)

			err := run(cfg, auth.NewTokenIssuer(cfg.Auth.AdminSecret), zap.NewNop())
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
