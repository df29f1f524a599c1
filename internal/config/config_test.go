package config

import (
	"os"
	"path/filepath"
	"testing"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}

	if cfg.DataDir != ".docket" {
		t.Errorf("DataDir = %s, want .docket", cfg.DataDir)
	}

	if cfg.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", cfg.PageSize)
	}

	if cfg.VerifyThreshold != 80 {
		t.Errorf("VerifyThreshold = %d, want 80", cfg.VerifyThreshold)
	}

	if cfg.Search.Command != SearchAuto {
		t.Errorf("Search.Command = %s, want auto", cfg.Search.Command)
	}

	if cfg.Search.MaxOutputBytes != 512*1024 {
		t.Errorf("Search.MaxOutputBytes = %d, want 524288", cfg.Search.MaxOutputBytes)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.PageSize != 5 {
		t.Errorf("PageSize = %d, want default 5", cfg.PageSize)
	}
}

func TestLoadFromOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "page_size: 10\nsearch:\n  command: \"off\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.Search.Command != SearchOff {
		t.Errorf("Search.Command = %s, want off", cfg.Search.Command)
	}

	// Everything the file doesn't mention keeps its default
	if cfg.VerifyThreshold != 80 {
		t.Errorf("VerifyThreshold = %d, want default 80", cfg.VerifyThreshold)
	}
	if cfg.Search.MaxOutputBytes != 512*1024 {
		t.Errorf("Search.MaxOutputBytes = %d, want default 524288", cfg.Search.MaxOutputBytes)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_size: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed YAML")
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_size: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() should reject page_size 0")
	}
	derr := docketerrors.AsDocketError(err)
	if derr == nil || derr.Code != docketerrors.CodeConfigInvalid {
		t.Errorf("error = %v, want code %s", err, docketerrors.CodeConfigInvalid)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
		{"negative page size", func(c *Config) { c.PageSize = -3 }},
		{"threshold above 100", func(c *Config) { c.VerifyThreshold = 101 }},
		{"negative threshold", func(c *Config) { c.VerifyThreshold = -1 }},
		{"unknown search command", func(c *Config) { c.Search.Command = "ripgrep" }},
		{"zero output cap", func(c *Config) { c.Search.MaxOutputBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			derr := docketerrors.AsDocketError(err)
			if derr == nil || derr.Code != docketerrors.CodeConfigInvalid {
				t.Errorf("error = %v, want code %s", err, docketerrors.CodeConfigInvalid)
			}
		})
	}
}

func TestValidateBoundaryValues(t *testing.T) {
	cfg := Default()
	cfg.PageSize = 1
	cfg.VerifyThreshold = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v for minimum values", err)
	}

	cfg.VerifyThreshold = 100
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v for threshold 100", err)
	}
}
