package config

import (
	"fmt"
	"strings"
)

// Validate checks a configuration for values the rest of the system
// cannot operate with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if len(cfg.Analyzer.Extensions) == 0 {
		return fmt.Errorf("analyzer.extensions must not be empty")
	}
	for _, ext := range cfg.Analyzer.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("analyzer.extensions entry %q must start with a dot", ext)
		}
	}
	if cfg.Analyzer.MaxFileKB < 0 {
		return fmt.Errorf("analyzer.max_file_kb must not be negative")
	}

	if cfg.Cache.MaxRoots < 1 {
		return fmt.Errorf("cache.max_roots must be at least 1")
	}
	if cfg.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative")
	}

	if cfg.Index.Workers < 0 {
		return fmt.Errorf("index.workers must not be negative")
	}

	return nil
}
