package config_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granchi/hollywood/internal/config"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "hollywood.yaml", `
log_level: debug
metrics_addr: ":2112"
count: 3
interval: 250ms
preferences:
  backend: redis
  redis:
    addr: "redis:6379"
    ttl: 1h
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":2112", cfg.MetricsAddr)
	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, config.Duration(250*time.Millisecond), cfg.Interval)
	assert.Equal(t, config.BackendRedis, cfg.Preferences.Backend)
	assert.Equal(t, "redis:6379", cfg.Preferences.Redis.Addr)
	assert.Equal(t, config.Duration(time.Hour), cfg.Preferences.Redis.TTL)
	assert.Equal(t, "countdown", cfg.Preferences.Namespace, "unset values keep their default")
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "hollywood.json", `{"count": 2, "interval": "2s", "log_json": true}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Count)
	assert.Equal(t, config.Duration(2*time.Second), cfg.Interval)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{name: "bad yaml", file: "c.yaml", content: "count: [", invalid: false},
		{name: "bad duration", file: "c.yaml", content: "interval: soon", invalid: false},
		{name: "zero count", file: "c.yaml", content: "count: 0", invalid: true},
		{name: "unknown level", file: "c.yaml", content: "log_level: loud", invalid: true},
		{name: "unknown backend", file: "c.json", content: `{"preferences": {"backend": "s3"}}`, invalid: true},
		{name: "redis without addr", file: "c.yaml", content: "preferences: {backend: redis, redis: {addr: \"\"}}", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(write(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, config.ErrInvalid)
			}
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPreferences_Keys(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{2}, 32))

	active, fallback, err := config.Preferences{}.Keys()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, fallback)

	active, fallback, err = config.Preferences{EncryptionKey: key, FallbackKeys: []string{old}}.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	require.Len(t, fallback, 1)
	assert.Equal(t, byte(2), fallback[0][0])

	for _, p := range []config.Preferences{
		{EncryptionKey: "not base64!"},
		{EncryptionKey: base64.StdEncoding.EncodeToString([]byte("short"))},
		{FallbackKeys: []string{old}},
	} {
		_, _, err := p.Keys()
		assert.ErrorIs(t, err, config.ErrInvalid)
	}
}

func TestValidate_Mask(t *testing.T) {
	cfg := config.Default()
	cfg.Preferences.Mask = []string{"("}
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
}
