/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the heapdb configuration
type Config struct {
	DataDir  string  `yaml:"data_dir"`
	PageSize int     `yaml:"page_size"`
	Load     Load    `yaml:"load"`
	Logging  Logging `yaml:"logging"`
	Metrics  Metrics `yaml:"metrics"`
}

// Load contains loader configuration
type Load struct {
	RowPolicy  string `yaml:"row_policy"`  // "abort" or "skip"
	BufferSize int    `yaml:"buffer_size"` // Heap file write buffer in bytes
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Metrics contains metrics output configuration
type Metrics struct {
	TextfilePath string `yaml:"textfile_path"` // Empty disables the metrics file
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:  ".",
		PageSize: 4096,
		Load: Load{
			RowPolicy:  "abort",
			BufferSize: 64 * 1024,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for values the tools cannot run with
func (c *Config) Validate() error {
	if c.PageSize <= 4 {
		return fmt.Errorf("page_size must be greater than 4, got %d", c.PageSize)
	}
	if c.Load.BufferSize < 0 {
		return fmt.Errorf("load.buffer_size must not be negative, got %d", c.Load.BufferSize)
	}
	switch strings.ToLower(c.Load.RowPolicy) {
	case "", "abort", "skip":
	default:
		return fmt.Errorf("load.row_policy must be abort or skip, got %q", c.Load.RowPolicy)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// HeapFilePath returns the path of the heap file for a page size
func (c *Config) HeapFilePath(pageSize int) string {
	return filepath.Join(c.DataDir, fmt.Sprintf("heap.%d", pageSize))
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath, using
// dataDir when it is not empty
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./heapdb.yaml"
	}

	// For Linux/macOS, use ~/.config/heapdb/config.yaml
	configDir := filepath.Join(homeDir, ".config", "heapdb")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
