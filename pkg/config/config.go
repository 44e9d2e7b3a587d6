// Package config holds viewer and batch settings loaded from a YAML
// file, with CLI flag overrides and auto-detected defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/drapehq/drape/pkg/projector"
	"github.com/drapehq/drape/pkg/texture"
)

// Config holds all configurable projection and batch settings.
type Config struct {
	// Viewer settings
	Mode   string             `json:"mode" yaml:"mode"`
	Params map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`

	// Banner build settings
	Segments int     `json:"segments" yaml:"segments"`
	Emboss   float64 `json:"emboss" yaml:"emboss"`

	// Batch settings
	ArtworkDir string `json:"artwork_dir" yaml:"artwork_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	TextureMax int    `json:"texture_max" yaml:"texture_max"`
	Workers    int    `json:"workers" yaml:"workers"`
}

// Load reads a YAML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mode       string
	ArtworkDir string
	OutputDir  string
	Workers    int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.ArtworkDir != "" {
		c.ArtworkDir = flags.ArtworkDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Resolve the output dir against the artwork dir
	if c.ArtworkDir != "" {
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.ArtworkDir, "renders")
		} else if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.ArtworkDir, c.OutputDir)
		}
	} else if c.OutputDir == "" {
		c.OutputDir = "renders"
	}

	// Defaults for projection and build settings
	if c.Mode == "" {
		c.Mode = projector.ModeCylindrical
	}
	if c.Segments <= 0 {
		c.Segments = 64
	}
	if c.TextureMax <= 0 {
		c.TextureMax = texture.DefaultMaxDim
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
