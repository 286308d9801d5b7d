package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a stencil invocation.
// Values are populated from .stencil.yaml, STENCIL_* env vars, and CLI flags.
type Config struct {
	DataDir string `mapstructure:"data_dir"`
	Editor  string `mapstructure:"editor"`
	Verbose bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("data_dir", filepath.Join(xdg.DataHome, "stencil"))
	viper.SetDefault("editor", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// ResolveEditor picks the editor command for interactive edits: the
// configured value wins, then $EDITOR, then vi.
func (c Config) ResolveEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}
