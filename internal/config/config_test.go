package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/treeflat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "treeflat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
lookup: indexed
root: "3"
visit_limit: 1000
log_level: debug
metrics_file: /tmp/treeflat.prom
redis:
  addr: localhost:6379
  db: 2
  key: rules:test
  ttl: 90s
`)

	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "indexed", cfg.Lookup)
	assert.Equal(t, 3, cfg.Root)
	assert.Equal(t, 1000, cfg.VisitLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/treeflat.prom", cfg.MetricsFile)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "rules:test", cfg.Redis.Key)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "visit_limit: 10\n")

	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	want := config.Default()
	want.VisitLimit = 10
	assert.Equal(t, want, cfg)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := config.Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(path, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":  "lookups: scan\n",
		"bad duration": "redis:\n  ttl: soon\n",
		"bad yaml":     "lookup: [scan\n",
		"bad int":      "root: zero\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content), true)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""), true)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
