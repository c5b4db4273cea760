package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ".", config.DataDir)
	assert.Equal(t, 4096, config.PageSize)
	assert.Equal(t, "abort", config.Load.RowPolicy)
	assert.Equal(t, 64*1024, config.Load.BufferSize)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Empty(t, config.Metrics.TextfilePath)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"page size too small", func(c *Config) { c.PageSize = 4 }, "page_size"},
		{"negative buffer", func(c *Config) { c.Load.BufferSize = -1 }, "buffer_size"},
		{"unknown row policy", func(c *Config) { c.Load.RowPolicy = "retry" }, "row_policy"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	config := DefaultConfig()
	config.Load.RowPolicy = "SKIP"
	config.Logging.Format = "JSON"
	assert.NoError(t, config.Validate())
}

func TestConfig_HeapFilePath(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "heap.2048", config.HeapFilePath(2048))

	config.DataDir = "/var/lib/heapdb"
	assert.Equal(t, "/var/lib/heapdb/heap.512", config.HeapFilePath(512))
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			DataDir:  "/custom/data",
			PageSize: 2048,
			Load: Load{
				RowPolicy:  "skip",
				BufferSize: 8192,
			},
			Logging: Logging{
				Level:  "debug",
				Format: "json",
			},
			Metrics: Metrics{
				TextfilePath: "/var/lib/node_exporter/heapdb.prom",
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("page_size: 1024\n"), 0600))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 1024, loadedConfig.PageSize)
		assert.Equal(t, ".", loadedConfig.DataDir)
		assert.Equal(t, "abort", loadedConfig.Load.RowPolicy)
		assert.Equal(t, "info", loadedConfig.Logging.Level)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("load invalid values", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("page_size: 2\n"), 0600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config file")
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, 4096, raw["page_size"])
	assert.Contains(t, raw, "load")
	assert.Contains(t, raw, "logging")
}

func TestBootstrapConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	config, err := BootstrapConfig(configPath, "/srv/heap")
	require.NoError(t, err)
	assert.Equal(t, "/srv/heap", config.DataDir)
	assert.True(t, ConfigExists(configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)

	config, err = BootstrapConfig(filepath.Join(tmpDir, "other.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, ".", config.DataDir)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.Contains(t, path, "heapdb")
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestConfigExists(t *testing.T) {
	assert.False(t, ConfigExists(filepath.Join(t.TempDir(), "nope.yaml")))
}
