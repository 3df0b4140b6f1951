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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, "linkedin_cache.json", cfg.Cache.Path)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Render.WaitTimeout)
	assert.Equal(t, 5*time.Second, cfg.Render.SettleDelay)
	assert.Equal(t, 1920, cfg.Render.Width)
	assert.Equal(t, 1080, cfg.Render.Height)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
port: 8081
collection: activity
cache:
  backend: memory
  ttl: 1h
render:
  mode: http
  settle_delay: 2s
article_domains: [blog.example.com]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "activity", cfg.Collection)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "http", cfg.Render.Mode)
	assert.Equal(t, 2*time.Second, cfg.Render.SettleDelay)
	assert.Equal(t, []string{"blog.example.com"}, cfg.ArticleDomains)
	// untouched keys keep defaults
	assert.Equal(t, 10*time.Second, cfg.Render.WaitTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 8081\n")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("ARTICLE_DOMAINS", "a.example, b.example ,")
	t.Setenv("RENDERER", "http")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.ArticleDomains)
	assert.Equal(t, "http", cfg.Render.Mode)
}

func TestLoadIgnoresMalformedEnvNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, ""))
	t.Setenv("PORT", "not-a-port")
	t.Setenv("CACHE_TTL", "forever")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "port: [1, 2"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }},
		{"unknown renderer", func(c *Config) { c.Render.Mode = "firefox" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"postgres without dsn", func(c *Config) { c.Cache.Backend = "postgres" }},
		{"mongodb without uri", func(c *Config) { c.Cache.Backend = "mongodb" }},
		{"empty collection", func(c *Config) { c.Collection = "/" }},
		{"negative settle", func(c *Config) { c.Render.SettleDelay = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
