package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.App.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Gateway.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Gateway.TimeoutDuration())
	assert.Equal(t, "local", cfg.Cache.Mode)
	assert.Equal(t, "garage-dashboard", cfg.Cache.Namespace)
	assert.Equal(t, "local", cfg.Report.Source)
	assert.Equal(t, 10, cfg.Shop.FixingCapacity)
	assert.Equal(t, 4, cfg.Shop.MechanicCapacity)
	assert.Equal(t, "@every 5m", cfg.Sync.Cron)
	assert.False(t, cfg.Session.Enabled)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTLDuration())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimit.UnlockAttemptsPerMinute)
}

func TestLoad_ConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"gateway": {"baseURL": "http://gateway.internal:8000", "timeout": 3},
		"cache": {"mode": "memory"},
		"shop": {"fixingCapacity": 6}
	}`), 0o600))
	t.Setenv("GATEWAY_TIMEOUT", "7")
	t.Setenv("GATEWAY_API_KEY", "k-123")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://gateway.internal:8000", cfg.Gateway.BaseURL)
	assert.Equal(t, 7, cfg.Gateway.Timeout)
	assert.Equal(t, "k-123", cfg.Gateway.APIKey)
	assert.Equal(t, "memory", cfg.Cache.Mode)
	assert.Equal(t, 6, cfg.Shop.FixingCapacity)
}

func TestLoad_RejectsUnknownCacheMode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CACHE_MODE", "floppy")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cache mode")
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Gateway: config.GatewayConfig{BaseURL: "http://localhost:8000", Timeout: 10},
			Cache:   config.CacheConfig{Mode: "sqlite"},
			Report:  config.ReportConfig{Source: "remote"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "bad report source", mutate: func(c *config.Config) { c.Report.Source = "excel" }, wantErr: "unsupported report source"},
		{name: "missing gateway", mutate: func(c *config.Config) { c.Gateway.BaseURL = "" }, wantErr: "gateway.baseURL is required"},
		{name: "zero timeout", mutate: func(c *config.Config) { c.Gateway.Timeout = 0 }, wantErr: "gateway.timeout must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type mapSource map[string]string

func (m mapSource) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	if v, ok := m[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestApplySecrets(t *testing.T) {
	cfg := &config.Config{
		Gateway: config.GatewayConfig{APIKey: "from-env"},
		Session: config.SessionConfig{SigningKey: "old"},
	}

	config.ApplySecrets(context.Background(), cfg, mapSource{
		"session-signing-key":     "vault-signing-key",
		"twilio-auth-token":       "vault-twilio",
		"cache-postgres-password": "",
	})

	assert.Equal(t, "from-env", cfg.Gateway.APIKey, "missing secrets keep the existing value")
	assert.Equal(t, "vault-signing-key", cfg.Session.SigningKey)
	assert.Equal(t, "vault-twilio", cfg.Notify.TwilioAuthToken)
	assert.Empty(t, cfg.Cache.Postgres.Password)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "cache", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cache sslmode=disable", d.ConnectionString())
}
