// Package config handles configuration loading and validation for margin.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Anchors  AnchorConfig   `yaml:"anchors"`
	Ignore   []string       `yaml:"ignore"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// RenderConfig controls HTML and terminal rendering.
type RenderConfig struct {
	// SyntaxStyle is the chroma style used for fenced code blocks.
	SyntaxStyle string `yaml:"syntax_style"`
	// IncludeResolved renders resolved annotations too when true.
	IncludeResolved bool `yaml:"include_resolved"`
}

// AnchorConfig controls anchor capture and relocation.
type AnchorConfig struct {
	// ContextWindow is the number of characters captured on each side of a
	// selection.
	ContextWindow int `yaml:"context_window"`
}

// DatabaseConfig holds sqlite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			SyntaxStyle:     "tokyonight-night",
			IncludeResolved: false,
		},
		Anchors: AnchorConfig{
			ContextWindow: 32,
		},
		Ignore: []string{"**/node_modules/**", "**/.git/**"},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Render.SyntaxStyle == "" {
		c.Render.SyntaxStyle = def.Render.SyntaxStyle
	}
	if c.Anchors.ContextWindow == 0 {
		c.Anchors.ContextWindow = def.Anchors.ContextWindow
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = def.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = def.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = def.Database.BusyTimeout
	}
}
