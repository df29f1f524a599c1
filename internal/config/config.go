// Package config provides configuration management for docket.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
)

const (
	// ConfigFileName is the default config file name
	ConfigFileName = "config.yaml"
	// DocketDir is the docket data directory
	DocketDir = ".docket"
)

// SearchCommand selects the archive-search accelerator.
type SearchCommand string

const (
	// SearchAuto uses the platform text-search utility when it is on PATH (default)
	SearchAuto SearchCommand = "auto"
	// SearchGrep always uses the platform text-search utility
	SearchGrep SearchCommand = "grep"
	// SearchOff disables the accelerator; archive search parses nothing
	SearchOff SearchCommand = "off"
)

// SearchConfig defines archive-search accelerator behavior.
type SearchConfig struct {
	// Command selects the accelerator mode (auto, grep, off)
	Command SearchCommand `yaml:"command"`

	// MaxOutputBytes caps how much accelerator output is read before the
	// invocation is abandoned (default: 524288)
	MaxOutputBytes int64 `yaml:"max_output_bytes"`
}

// Config represents the docket configuration.
type Config struct {
	// Version is the config file version
	Version int `yaml:"version"`

	// DataDir holds the live store and archive documents (default: .docket)
	DataDir string `yaml:"data_dir"`

	// PageSize is the default number of search results per page
	PageSize int `yaml:"page_size"`

	// VerifyThreshold is the minimum verification score (0-100) that
	// completes a task
	VerifyThreshold int `yaml:"verify_threshold"`

	// Search configures the archive-search accelerator
	Search SearchConfig `yaml:"search"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version:         1,
		DataDir:         DocketDir,
		PageSize:        5,
		VerifyThreshold: 80,
		Search: SearchConfig{
			Command:        SearchAuto,
			MaxOutputBytes: 512 * 1024,
		},
	}
}

// Validate checks the configuration for values no operation could work with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return docketerrors.ErrConfigInvalid("data_dir", "Data directory cannot be empty")
	}
	if c.PageSize < 1 {
		return docketerrors.ErrConfigInvalid("page_size", fmt.Sprintf("Page size must be at least 1, got %d", c.PageSize))
	}
	if c.VerifyThreshold < 0 || c.VerifyThreshold > 100 {
		return docketerrors.ErrConfigInvalid("verify_threshold", fmt.Sprintf("Verification threshold must be between 0 and 100, got %d", c.VerifyThreshold))
	}
	switch c.Search.Command {
	case SearchAuto, SearchGrep, SearchOff:
	default:
		return docketerrors.ErrConfigInvalid("search.command", fmt.Sprintf("Search command must be auto, grep or off, got '%s'", c.Search.Command))
	}
	if c.Search.MaxOutputBytes < 1 {
		return docketerrors.ErrConfigInvalid("search.max_output_bytes", fmt.Sprintf("Output cap must be positive, got %d", c.Search.MaxOutputBytes))
	}
	return nil
}

// Load loads the config from the default location.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(DocketDir, ConfigFileName))
}

// LoadFrom loads the config from a specific path. A missing file is not
// an error; the defaults apply.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
