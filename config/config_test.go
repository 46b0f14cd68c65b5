package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"DATABASE_URL", "JWT_SECRET_KEY", "SERVER_PORT", "CORS_ALLOWED_ORIGINS", "LOGIN_RATE_PER_MINUTE",
	"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
	"ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	// Run from a temp dir so a developer .env file cannot leak in.
	t.Chdir(t.TempDir())
	for _, k := range allKeys {
		t.Setenv(k, env[k])
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":   "postgres://cup@localhost/cup",
		"JWT_SECRET_KEY": "secret",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.R2Enabled())
}

func TestLoadFull(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":          "postgres://cup@localhost/cup",
		"JWT_SECRET_KEY":        "secret",
		"SERVER_PORT":           "9000",
		"CORS_ALLOWED_ORIGINS":  "https://cup.example, https://admin.cup.example ,",
		"LOGIN_RATE_PER_MINUTE": "3",
		"R2_ACCOUNT_ID":         "acc",
		"R2_ACCESS_KEY_ID":      "key",
		"R2_SECRET_ACCESS_KEY":  "secret",
		"R2_BUCKET_NAME":        "logos",
		"R2_PUBLIC_BASE_URL":    "https://cdn.cup.example",
		"ADMIN_EMAIL":           "ops@cup.example",
		"ADMIN_PASSWORD":        "long-enough",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 3, cfg.LoginRatePerMinute)
	assert.Equal(t, []string{"https://cup.example", "https://admin.cup.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.R2Enabled())
	assert.Equal(t, "ops@cup.example", cfg.AdminEmail)
}

func TestLoadErrors(t *testing.T) {
	base := map[string]string{"DATABASE_URL": "postgres://cup@localhost/cup", "JWT_SECRET_KEY": "secret"}
	with := func(k, v string) map[string]string {
		env := map[string]string{}
		for key, val := range base {
			env[key] = val
		}
		env[k] = v
		return env
	}

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing database url", with("DATABASE_URL", ""), "DATABASE_URL"},
		{"missing jwt secret", with("JWT_SECRET_KEY", ""), "JWT_SECRET_KEY"},
		{"port not a number", with("SERVER_PORT", "http"), "SERVER_PORT"},
		{"port out of range", with("SERVER_PORT", "70000"), "SERVER_PORT"},
		{"zero login rate", with("LOGIN_RATE_PER_MINUTE", "0"), "LOGIN_RATE_PER_MINUTE"},
		{"partial r2", with("R2_BUCKET_NAME", "logos"), "R2_"},
		{"admin without password", with("ADMIN_EMAIL", "ops@cup.example"), "ADMIN_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
