package config

// Config represents the complete mcp-code-manager configuration.
// It can be loaded from .mcm/config.yml with environment variable overrides.
type Config struct {
	Analyzer   AnalyzerConfig   `yaml:"analyzer" mapstructure:"analyzer"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Index      IndexConfig      `yaml:"index" mapstructure:"index"`
}

// AnalyzerConfig defines which files are analyzed and which are skipped.
type AnalyzerConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // source file extensions, e.g. [".cs"]
	Exclude    []string `yaml:"exclude" mapstructure:"exclude"`       // glob patterns never opened
	MaxFileKB  int      `yaml:"max_file_kb" mapstructure:"max_file_kb"`
}

// ClassifierConfig pins the naming-convention policy used to assign
// element kinds. Kept in configuration so the suffix lists are explicit
// rather than guessed per call.
type ClassifierConfig struct {
	DTOSuffixes        []string `yaml:"dto_suffixes" mapstructure:"dto_suffixes"`
	ServiceSuffixes    []string `yaml:"service_suffixes" mapstructure:"service_suffixes"`
	ServiceNamespaces  []string `yaml:"service_namespaces" mapstructure:"service_namespaces"`
	ControllerSuffixes []string `yaml:"controller_suffixes" mapstructure:"controller_suffixes"`
	ControllerBases    []string `yaml:"controller_bases" mapstructure:"controller_bases"`
}

// CacheConfig controls the optional per-root solution index cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	MaxRoots   int  `yaml:"max_roots" mapstructure:"max_roots"`     // distinct roots held at once
	TTLSeconds int  `yaml:"ttl_seconds" mapstructure:"ttl_seconds"` // hard upper bound on entry age
	Watch      bool `yaml:"watch" mapstructure:"watch"`             // invalidate via filesystem events
}

// IndexConfig controls how solution indexes are built.
type IndexConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // parallel parse workers, 0 = GOMAXPROCS
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			Extensions: []string{".cs"},
			Exclude: []string{
				".git/**",
				"bin/**",
				"obj/**",
				"packages/**",
				"node_modules/**",
				"**/bin/**",
				"**/obj/**",
				"**/packages/**",
				"**/node_modules/**",
			},
			MaxFileKB: 2048,
		},
		Classifier: ClassifierConfig{
			DTOSuffixes:        []string{"Dto", "Request", "Response", "ViewModel"},
			ServiceSuffixes:    []string{"Service"},
			ServiceNamespaces:  []string{"Services", "Application"},
			ControllerSuffixes: []string{"Controller"},
			ControllerBases:    []string{"Controller", "ControllerBase", "ApiController"},
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxRoots:   16,
			TTLSeconds: 300,
			Watch:      true,
		},
		Index: IndexConfig{
			Workers: 0,
		},
	}
}
