package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  port: 9999
storage:
  type: redis
  redis_addr: "127.0.0.1:6380"
  database_path: `+filepath.Join(dir, "db.sqlite")+`
download:
  output_dir: `+dir+`
  tick_interval: 50ms
  min_step: 10
  max_step: 10
metadata:
  api_key: from-file
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, domain.StorageRedis, config.Storage.Type)
	assert.Equal(t, "127.0.0.1:6380", config.Storage.RedisAddr)
	assert.Equal(t, 50*time.Millisecond, config.Download.TickInterval)
	assert.Equal(t, 10, config.Download.MinStep)
	assert.Equal(t, "from-file", config.Metadata.APIKey)
	// untouched keys keep their defaults
	assert.Equal(t, domain.DefaultLibraryKey, config.Storage.LibraryKey)
	assert.Equal(t, "gemini-2.5-flash", config.Metadata.Model)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STREAMFETCH_SERVER_PORT", "7070")
	t.Setenv("STREAMFETCH_STORAGE_TYPE", "memory")
	t.Setenv("STREAMFETCH_METADATA_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")
	path := writeConfig(t, "server:\n  host: 0.0.0.0\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, domain.StorageMemory, config.Storage.Type)
	assert.Equal(t, "fallback-key", config.Metadata.APIKey)
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	path := writeConfig(t, "download:\n  output_dir: \"~/fetched\"\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "fetched"), config.Download.OutputDir)
	assert.NotContains(t, config.Storage.DatabasePath, "$HOME")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port", "server:\n  port: 70000\n"},
		{"storage type", "storage:\n  type: floppy\n"},
		{"library key", "storage:\n  library_key: \"\"\n"},
		{"steps", "download:\n  min_step: 20\n  max_step: 5\n"},
		{"tick", "download:\n  tick_interval: 0s\n"},
		{"notification method", "notifications:\n  method: carrier-pigeon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	config := domain.DefaultConfig()
	config.Server.Port = 8181
	config.Storage.Type = domain.StorageMemory
	config.Download.OutputDir = t.TempDir()
	config.Metadata.APIKey = "secret"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, SaveConfig(config, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, loaded.Server.Port)
	assert.Equal(t, domain.StorageMemory, loaded.Storage.Type)
	assert.Equal(t, config.Download.TickInterval, loaded.Download.TickInterval)
	assert.Empty(t, loaded.Metadata.APIKey)
}
