// Package config handles loading taskdeck.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the taskdeck.toml configuration file.
type Config struct {
	API API `toml:"api"`
}

// API contains remote-service configuration.
type API struct {
	// URL is the service endpoint. Overridden by TASKDECK_API_URL;
	// empty falls back to the local development default.
	URL string `toml:"url"`

	// Timeout bounds each request, e.g. "30s". Zero uses the default.
	Timeout duration `toml:"timeout"`

	// Debug logs request/response metadata to stderr.
	Debug bool `toml:"debug"`
}

// Timeout returns the configured request timeout.
func (a API) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout)
}

// duration wraps time.Duration for TOML string decoding.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Load loads configuration from the working directory and the global
// config file. Project values win over global ones. Returns an empty
// config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, "taskdeck.toml"))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	return merged, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "taskdeck", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.API.URL = mergeString(projectMeta.IsDefined("api", "url"), projectCfg.API.URL, globalCfg.API.URL)
	if projectMeta.IsDefined("api", "timeout") {
		merged.API.Timeout = projectCfg.API.Timeout
	} else {
		merged.API.Timeout = globalCfg.API.Timeout
	}
	if projectMeta.IsDefined("api", "debug") {
		merged.API.Debug = projectCfg.API.Debug
	} else {
		merged.API.Debug = globalCfg.API.Debug
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
