package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsNeedSecret(t *testing.T) {
	t.Setenv("APEXCRM_CONFIG", "")
	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("APEXCRM_JWT__SECRET", "s3cret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.Debounce)
	assert.Equal(t, 100, cfg.Pipeline.PageSize)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  url: postgres://localhost/apex
jwt:
  secret: from-file
pipeline:
  debounce: 250ms
telegram:
  token: abc
  chat_id: 42
`)
	t.Setenv("APEXCRM_CONFIG", path)
	t.Setenv("APEXCRM_SERVER__PORT", "7070")

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/apex", cfg.Database.DSN)
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.Debounce)
	assert.Equal(t, 100, cfg.Pipeline.PageSize, "unset keys keep defaults")
	assert.True(t, cfg.Telegram.Enabled())
	assert.False(t, cfg.Email.Enabled())
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("APEXCRM_CONFIG", "")
	t.Setenv("APEXCRM_JWT__SECRET", "x")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"postgres without url", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"negative debounce", func(c *Config) { c.Pipeline.Debounce = -time.Second }},
		{"zero page size", func(c *Config) { c.Pipeline.PageSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.JWT.Secret = "x"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
