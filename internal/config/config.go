package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"codescope/internal/languages"
)

// DefaultMaxFileSizeBytes is the per-file parse ceiling (10 MiB).
const DefaultMaxFileSizeBytes = 10 * 1024 * 1024

// Config represents the complete codescope configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig contains the engine knobs recognized at the library boundary
type AnalysisConfig struct {
	// MaxFileSizeBytes caps parse eligibility for a single file
	MaxFileSizeBytes int64 `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`

	// MaxDepth bounds directory recursion during structure scans
	MaxDepth int `json:"maxDepth" mapstructure:"maxDepth"`

	// IgnorePatterns overrides the default skip-set when non-empty
	IgnorePatterns []string `json:"ignorePatterns" mapstructure:"ignorePatterns"`

	// LargestFiles is the size of the largest-files report
	LargestFiles int `json:"largestFiles" mapstructure:"largestFiles"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Analysis: AnalysisConfig{
			MaxFileSizeBytes: DefaultMaxFileSizeBytes,
			MaxDepth:         10,
			IgnorePatterns:   languages.DefaultIgnorePatterns(),
			LargestFiles:     10,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .codescope/config.json under the
// project root, falling back to defaults when no file exists.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("analysis.maxFileSizeBytes", DefaultMaxFileSizeBytes)
	v.SetDefault("analysis.maxDepth", 10)
	v.SetDefault("analysis.largestFiles", 10)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".codescope"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Analysis.IgnorePatterns) == 0 {
		cfg.Analysis.IgnorePatterns = languages.DefaultIgnorePatterns()
	}

	return &cfg, nil
}

// Save writes the configuration to .codescope/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".codescope")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.MaxFileSizeBytes <= 0 {
		return &ConfigError{Field: "analysis.maxFileSizeBytes", Message: "must be positive"}
	}
	if c.Analysis.MaxDepth <= 0 {
		return &ConfigError{Field: "analysis.maxDepth", Message: "must be positive"}
	}
	if c.Analysis.LargestFiles < 0 {
		return &ConfigError{Field: "analysis.largestFiles", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
