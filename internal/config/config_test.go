package config_test

import (
	"testing"
	"time"

	"github.com/dom/newsly/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, config.SessionStorePostgres, cfg.SessionStore)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.PDFFetchTimeout)
	assert.Equal(t, 60*time.Second, cfg.StreamInterval)
	assert.Equal(t, "https://gnews.io/api/v4", cfg.GNewsBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("SESSION_MAX_AGE_MINUTES", "90")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("FRONTEND_URL", "https://newsly.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-secret", cfg.SessionSecret)
	assert.Equal(t, 90*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, config.SessionStoreRedis, cfg.SessionStore)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{
		"https://newsly.example.com",
		"http://localhost:3000",
		"http://localhost:3001",
	}, cfg.AllowedOrigins())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing secret",
			env:  map[string]string{"SESSION_SECRET": "", "JWT_SECRET": ""},
		},
		{
			name: "unknown session store",
			env:  map[string]string{"SESSION_SECRET": "s", "SESSION_STORE": "mongo"},
		},
		{
			name: "non-positive max age",
			env:  map[string]string{"SESSION_SECRET": "s", "SESSION_MAX_AGE_MINUTES": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
