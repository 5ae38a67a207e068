package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":        "http://www.example:9000/api",
		"request_timeout":     "10s",
		"requests_per_second": 2.5,
		"log_backend":         "zap",
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{Locale: "pl"}
		require.NoError(t, parseFile(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "http://www.example:9000/api", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "pl", cfg.Locale, "absent keys keep the current value")
	})

	t.Run("nanosecond durations", func(t *testing.T) {
		p := writeTempJSON(t, dir, "ns.json", map[string]any{"request_timeout": 1500000000})
		cfg := &Config{}
		require.NoError(t, parseFile(cfg, []string{"-c", p}))
		assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	})

	t.Run("no flags, no changes", func(t *testing.T) {
		cfg := &Config{APIBaseURL: "defaults", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseFile(cfg, []string{"-a", "x"}))

		assert.Equal(t, "defaults", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseFile(&Config{}, []string{"-config", bad})
		require.ErrorContains(t, err, "parse config file")
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseFile(&Config{}, []string{"-c", filepath.Join(dir, "absent.json")})
		require.ErrorContains(t, err, "read config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		p := writeTempJSON(t, dir, "dur.json", map[string]any{"request_timeout": "soon"})
		require.Error(t, parseFile(&Config{}, []string{"-c", p}))
	})
}

func Test_parseFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte("cache_backend: redis\nredis_addr: localhost:6379\nrequest_timeout: 2s\n"), 0o600))

	cfg := &Config{}
	require.NoError(t, parseFile(cfg, []string{"--config=" + path}))
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}
