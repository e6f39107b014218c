package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"FRONTEND_URL", "API_URL", "NODE_ENV", "CI", "FORGE_ADMIN_EMAIL", "FORGE_ADMIN_PASSWORD",
		"E2E_TARGET", "E2E_HEADLESS", "E2E_CHROME_PATH", "E2E_SKIP_BROWSER", "E2E_ARTIFACT_DIR",
		"E2E_HEALTH_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfigFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfigFromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8888", cfg.FrontendURL)
	assert.Equal(t, "http://localhost:8888/api", cfg.APIURL)
	assert.Equal(t, DefaultCredentials, cfg.Credentials)
	assert.Equal(t, TargetRemote, cfg.Target)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 0, cfg.Verbosity())
	assert.Equal(t, 5*time.Second, cfg.HealthTimeout)
}

func TestNewConfigFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FRONTEND_URL", "https://forge.example.com/")
	t.Setenv("NODE_ENV", "debug")
	t.Setenv("CI", "true")
	t.Setenv("E2E_HEADLESS", "false")
	t.Setenv("FORGE_ADMIN_EMAIL", "qa@forge.local")
	t.Setenv("E2E_TARGET", "stub")
	t.Setenv("E2E_HEALTH_TIMEOUT", "2s")

	cfg := NewConfigFromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://forge.example.com", cfg.FrontendURL)
	assert.Equal(t, "https://forge.example.com/api", cfg.APIURL, "API URL follows the frontend URL")
	assert.True(t, cfg.Headless, "CI forces headless")
	assert.Equal(t, 4, cfg.Verbosity())
	assert.Equal(t, "qa@forge.local", cfg.Credentials.Email)
	assert.Equal(t, DefaultCredentials.Password, cfg.Credentials.Password)
	assert.Equal(t, TargetStub, cfg.Target)
	assert.Equal(t, 2*time.Second, cfg.HealthTimeout)

	t.Setenv("API_URL", "https://api.forge.example.com/v2/")
	assert.Equal(t, "https://api.forge.example.com/v2", NewConfigFromEnv().APIURL)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "bad frontend url", mutate: func(c *Config) { c.FrontendURL = "localhost:8888" }, errMsg: "FRONTEND_URL"},
		{name: "bad api url", mutate: func(c *Config) { c.APIURL = "ftp://forge" }, errMsg: "API_URL"},
		{name: "bad target", mutate: func(c *Config) { c.Target = "staging" }, errMsg: "E2E_TARGET"},
		{name: "bad timeout", mutate: func(c *Config) { c.HealthTimeout = 0 }, errMsg: "E2E_HEALTH_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			cfg := NewConfigFromEnv()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigWithTarget(t *testing.T) {
	clearEnv(t)

	cfg := NewConfigFromEnv()
	other := cfg.WithTarget("http://127.0.0.1:4000/", "http://127.0.0.1:4000/api")

	assert.Equal(t, "http://127.0.0.1:4000", other.FrontendURL)
	assert.Equal(t, "http://127.0.0.1:4000/api", other.APIURL)
	assert.Equal(t, "http://localhost:8888", cfg.FrontendURL, "original is untouched")
}
