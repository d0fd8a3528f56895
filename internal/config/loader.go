package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (MCM_*)
// 2. Config file (.mcm/config.yml or .mcm/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".mcm")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides (e.g. MCM_CACHE_ENABLED)
	v.SetEnvPrefix("MCM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("analyzer.max_file_kb")
	v.BindEnv("cache.enabled")
	v.BindEnv("cache.max_roots")
	v.BindEnv("cache.ttl_seconds")
	v.BindEnv("cache.watch")
	v.BindEnv("index.workers")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("analyzer.extensions", defaults.Analyzer.Extensions)
	v.SetDefault("analyzer.exclude", defaults.Analyzer.Exclude)
	v.SetDefault("analyzer.max_file_kb", defaults.Analyzer.MaxFileKB)

	v.SetDefault("classifier.dto_suffixes", defaults.Classifier.DTOSuffixes)
	v.SetDefault("classifier.service_suffixes", defaults.Classifier.ServiceSuffixes)
	v.SetDefault("classifier.service_namespaces", defaults.Classifier.ServiceNamespaces)
	v.SetDefault("classifier.controller_suffixes", defaults.Classifier.ControllerSuffixes)
	v.SetDefault("classifier.controller_bases", defaults.Classifier.ControllerBases)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.max_roots", defaults.Cache.MaxRoots)
	v.SetDefault("cache.ttl_seconds", defaults.Cache.TTLSeconds)
	v.SetDefault("cache.watch", defaults.Cache.Watch)

	v.SetDefault("index.workers", defaults.Index.Workers)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
