// Package config loads server settings. Environment variables prefixed
// SNIC_MCP_ override an optional YAML file, which overrides the defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SNIC_MCP_EE_PROJECT.
	EnvPrefix = "SNIC_MCP"

	// FileEnv names the variable holding the config file path.
	FileEnv = "SNIC_MCP_CONFIG"

	maxPreviewSize = 2048
)

type Config struct {
	EE      EEConfig      `mapstructure:"ee"`
	Log     LogConfig     `mapstructure:"log"`
	Preview PreviewConfig `mapstructure:"preview"`
}

type EEConfig struct {
	// Project is the Cloud project requests are billed to. Tools that talk
	// to the platform are unavailable without it.
	Project         string `mapstructure:"project"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type PreviewConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`

	// CacheTiles bounds the decoded tile cache. Zero disables caching.
	CacheTiles int `mapstructure:"cache_tiles"`
}

// Load reads the config file at path, or the one named by SNIC_MCP_CONFIG
// when path is empty. Without either, only the environment and defaults
// apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ee.project", EnvPrefix+"_EE_PROJECT", "GOOGLE_CLOUD_PROJECT"); err != nil {
		return nil, fmt.Errorf("failed to bind project env: %w", err)
	}

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. An empty project is allowed.
func (c *Config) Validate() error {
	if c.Preview.Width <= 0 || c.Preview.Width > maxPreviewSize {
		return fmt.Errorf("preview.width %d outside 1..%d", c.Preview.Width, maxPreviewSize)
	}
	if c.Preview.Height <= 0 || c.Preview.Height > maxPreviewSize {
		return fmt.Errorf("preview.height %d outside 1..%d", c.Preview.Height, maxPreviewSize)
	}
	if c.Preview.CacheTiles < 0 {
		return fmt.Errorf("preview.cache_tiles must be non-negative, got %d", c.Preview.CacheTiles)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ee.project", "")
	v.SetDefault("ee.credentials_file", "")
	v.SetDefault("ee.endpoint", "https://earthengine.googleapis.com/")

	v.SetDefault("log.level", "info")

	v.SetDefault("preview.width", 512)
	v.SetDefault("preview.height", 512)
	v.SetDefault("preview.cache_tiles", 256)
}
