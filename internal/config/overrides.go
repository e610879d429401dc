package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// OverridesFile is the per-project override file checked into the analyzed
// repository itself, next to its sources.
const OverridesFile = "codescope.toml"

// Overrides holds project-level tweaks declared in codescope.toml.
// Unset fields leave the loaded configuration untouched.
type Overrides struct {
	// MaxFileSizeBytes replaces the parse-eligibility ceiling
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`

	// MaxDepth replaces the directory recursion bound
	MaxDepth int `toml:"max_depth"`

	// IgnorePatterns are appended to the active ignore set
	IgnorePatterns []string `toml:"ignore_patterns"`
}

// LoadOverrides reads codescope.toml from the project root. A missing file
// is not an error; the zero Overrides is returned.
func LoadOverrides(projectRoot string) (*Overrides, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, OverridesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Overrides{}, nil
		}
		return nil, err
	}

	var o Overrides
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Apply folds the overrides into a configuration.
func (o *Overrides) Apply(cfg *Config) {
	if o.MaxFileSizeBytes > 0 {
		cfg.Analysis.MaxFileSizeBytes = o.MaxFileSizeBytes
	}
	if o.MaxDepth > 0 {
		cfg.Analysis.MaxDepth = o.MaxDepth
	}
	cfg.Analysis.IgnorePatterns = append(cfg.Analysis.IgnorePatterns, o.IgnorePatterns...)
}
