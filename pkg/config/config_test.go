package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:4000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL.Std())
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, devJWTSecret, cfg.Session.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL.Std())
	assert.Equal(t, "memory", cfg.Persistence.Type)
	assert.Equal(t, uint16(5432), cfg.Persistence.Database.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, MailModeInProcess, cfg.Email.Mode)
	assert.Equal(t, "bcrypt", cfg.Security.PasswordHasher)
	assert.False(t, cfg.Security.ResetMaskUnknownEmail)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("SESSION_TTL", "P1D")
	t.Setenv("OTP_TTL", "PT5M")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MAIL_MODE", "queue")
	t.Setenv("RESET_MASK_UNKNOWN_EMAIL", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "prod-secret", cfg.Session.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL.Std())
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL.Std())
	assert.Equal(t, uint16(8080), cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, MailModeQueue, cfg.Email.Mode)
	assert.True(t, cfg.Security.ResetMaskUnknownEmail)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.env")
	require.NoError(t, os.WriteFile(path, []byte("PERSISTENCE=file\nDATA_DIR=/var/lib/account\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PERSISTENCE")
		os.Unsetenv("DATA_DIR")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Persistence.Type)
	assert.Equal(t, "/var/lib/account", cfg.Persistence.DataDir)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"ProductionWithoutSecret", map[string]string{"APP_ENV": "production"}},
		{"ProductionWithDevSecret", map[string]string{"APP_ENV": "production", "JWT_SECRET": devJWTSecret}},
		{"UnknownEnv", map[string]string{"APP_ENV": "staging"}},
		{"QueueWithoutRedis", map[string]string{"MAIL_MODE": "queue"}},
		{"UnknownMailMode", map[string]string{"MAIL_MODE": "carrier-pigeon"}},
		{"BadDuration", map[string]string{"OTP_TTL": "ten minutes"}},
		{"ZeroSessionTTL", map[string]string{"SESSION_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestEmailConfig_ToSMTPConfig(t *testing.T) {
	e := EmailConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "a@example.com", TLS: true}
	smtp := e.ToSMTPConfig()
	assert.Equal(t, "smtp.example.com", smtp.Host)
	assert.Equal(t, 587, smtp.Port)
	assert.Equal(t, "u", smtp.Username)
	assert.Equal(t, "p", smtp.Password)
	assert.Equal(t, "a@example.com", smtp.From)
	assert.True(t, smtp.TLS)
}

func TestDatabaseConfig_ToDbConfig(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, Database: "accounts", User: "svc", Password: "secret"}
	db := d.ToDbConfig()
	assert.Equal(t, "db", db.Host)
	assert.Equal(t, uint16(5433), db.Port)
	assert.Equal(t, "accounts", db.Database)
	assert.Equal(t, "svc", db.User)
	assert.Equal(t, "secret", db.Password)
}

func TestParseDurationISO8601(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT10M", 10 * time.Minute},
		{"P7D", 7 * 24 * time.Hour},
		{"168h", 168 * time.Hour},
		{"1m30s", 90 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDurationISO8601(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
