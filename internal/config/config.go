package config

import "fmt"

// Config represents the complete structmap configuration.
// It can be loaded from .structmap/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// PathsConfig defines which files to scan and which to ignore.
type PathsConfig struct {
	Include      []string `yaml:"include" mapstructure:"include"`             // glob patterns for source files
	Ignore       []string `yaml:"ignore" mapstructure:"ignore"`               // glob patterns to skip
	UseGitignore bool     `yaml:"use_gitignore" mapstructure:"use_gitignore"` // honor .gitignore entries
}

// ScanConfig defines concurrency and caching behavior of the scanner.
type ScanConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers"`         // parallel parse workers; 0 means GOMAXPROCS
	CacheSize  int `yaml:"cache_size" mapstructure:"cache_size"`   // max cached parse results
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // watch-mode debounce window
}

// StorageConfig defines where the symbol index database lives.
type StorageConfig struct {
	Location string `yaml:"location" mapstructure:"location"` // Override default .structmap/index.db
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.go",
				"**/*.rs",
				"**/*.java",
				"**/*.kt",
				"**/*.kts",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.rb",
				"**/*.cs",
				"**/*.php",
				"**/*.py",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
			UseGitignore: true,
		},
		Scan: ScanConfig{
			Workers:    0,
			CacheSize:  4096,
			DebounceMs: 250,
		},
		Storage: StorageConfig{
			Location: "", // Empty means use default .structmap/index.db
		},
	}
}

// Validate checks a loaded configuration for values the scanner cannot work
// with.
func Validate(cfg *Config) error {
	if len(cfg.Paths.Include) == 0 {
		return fmt.Errorf("paths.include must list at least one pattern")
	}
	if cfg.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must not be negative, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.CacheSize < 0 {
		return fmt.Errorf("scan.cache_size must not be negative, got %d", cfg.Scan.CacheSize)
	}
	if cfg.Scan.DebounceMs < 0 {
		return fmt.Errorf("scan.debounce_ms must not be negative, got %d", cfg.Scan.DebounceMs)
	}
	return nil
}
