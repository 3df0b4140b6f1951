package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityfeed/internal/config"
)

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.CacheConfig
		want string
	}{
		{"file", config.CacheConfig{Backend: "file", Path: filepath.Join(dir, "c.json")}, "file"},
		{"memory", config.CacheConfig{Backend: "memory"}, "memory"},
		{"sqlite", config.CacheConfig{Backend: "sqlite", DSN: filepath.Join(dir, "c.db"), Key: "linkedin"}, "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenBackend(context.Background(), tt.cfg)
			require.NoError(t, err)
			defer b.Close()
			assert.Equal(t, tt.want, b.Name())
		})
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	_, err := OpenBackend(context.Background(), config.CacheConfig{Backend: "redis"})
	assert.ErrorContains(t, err, "unsupported cache backend")
}

func TestOpenStoreUsesTTL(t *testing.T) {
	cfg := config.Default().Cache
	cfg.Path = filepath.Join(t.TempDir(), "linkedin_cache.json")
	cfg.TTL = time.Hour

	s, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(context.Background(), sampleEntries()))
	rec, err := s.Inspect(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Fresh(rec))
	assert.Equal(t, "file", s.BackendName())
}
