// Package config loads the .codenav.kdl (preferred) or codenav.toml
// project configuration, applies defaults, and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/open-agent-tools/codenav/internal/errors"
	"github.com/open-agent-tools/codenav/internal/grammar"
)

const (
	// KDLFileName is the preferred project config file
	KDLFileName = ".codenav.kdl"
	// TOMLFileName is the fallback project config file
	TOMLFileName = "codenav.toml"
)

// Config is the full runtime configuration.
type Config struct {
	MaxSourceBytes  int         `toml:"max_source_bytes" json:"max_source_bytes"`
	DefaultLanguage string      `toml:"default_language" json:"default_language,omitempty"`
	Suggestions     Suggestions `toml:"suggestions" json:"suggestions"`
	Scan            Scan        `toml:"scan" json:"scan"`
}

// Suggestions controls "did you mean" candidates on not-found failures.
type Suggestions struct {
	Enabled   bool    `toml:"enabled" json:"enabled"`
	Threshold float64 `toml:"threshold" json:"threshold"`
	Max       int     `toml:"max" json:"max"`
}

// Scan controls the multi-file overview fan-out.
type Scan struct {
	Workers int      `toml:"workers" json:"workers"`
	Include []string `toml:"include" json:"include"`
	Exclude []string `toml:"exclude" json:"exclude"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		MaxSourceBytes: grammar.DefaultMaxSourceBytes,
		Suggestions: Suggestions{
			Enabled:   true,
			Threshold: 0.85,
			Max:       3,
		},
		Scan: Scan{
			Workers: runtime.NumCPU(),
			Include: []string{"**/*"},
			Exclude: []string{"**/node_modules/**", "**/.git/**"},
		},
	}
}

// Load reads the project config from dir, preferring .codenav.kdl over
// codenav.toml. With neither present the defaults apply.
func Load(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, KDLFileName)
	if _, err := os.Stat(kdlPath); err == nil {
		return LoadFile(kdlPath)
	}
	tomlPath := filepath.Join(dir, TOMLFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return LoadFile(tomlPath)
	}
	return Default(), nil
}

// LoadFile reads one explicit config file, dispatching on its extension.
// The returned config is always validated.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("file", path, err)
	}

	cfg := Default()
	switch {
	case strings.HasSuffix(path, ".kdl"):
		if err := parseKDL(string(content), cfg); err != nil {
			return nil, errors.NewConfigError("file", path, err)
		}
	case strings.HasSuffix(path, ".toml"):
		if err := toml.Unmarshal(content, cfg); err != nil {
			return nil, errors.NewConfigError("file", path, err)
		}
	default:
		return nil, errors.NewConfigError("file", path, fmt.Errorf("unsupported config format (want .kdl or .toml)"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.MaxSourceBytes < 1024 {
		return errors.NewConfigError("max-source-bytes", strconv.Itoa(c.MaxSourceBytes),
			fmt.Errorf("must be at least 1024 bytes"))
	}
	if c.Scan.Workers < 1 {
		return errors.NewConfigError("scan.workers", strconv.Itoa(c.Scan.Workers),
			fmt.Errorf("must be at least 1"))
	}
	if c.Suggestions.Threshold <= 0 || c.Suggestions.Threshold > 1 {
		return errors.NewConfigError("suggestions.threshold",
			strconv.FormatFloat(c.Suggestions.Threshold, 'f', -1, 64),
			fmt.Errorf("must be in (0, 1]"))
	}
	if c.Suggestions.Max < 1 {
		return errors.NewConfigError("suggestions.max", strconv.Itoa(c.Suggestions.Max),
			fmt.Errorf("must be at least 1"))
	}
	if c.DefaultLanguage != "" {
		if _, ok := grammar.Normalize(c.DefaultLanguage); !ok {
			return errors.NewConfigError("default-language", c.DefaultLanguage,
				fmt.Errorf("unsupported language (supported: %s)", strings.Join(grammar.Supported(), ", ")))
		}
	}
	return nil
}

// DefaultKDL is the starter config written by `codenav config init`.
const DefaultKDL = `// codenav configuration
max-source-bytes 2000000
// default-language "go"

suggestions {
    enabled true
    threshold 0.85
    max 3
}

scan {
    workers 8
    include "**/*"
    exclude "**/node_modules/**"
    exclude "**/.git/**"
}
`
