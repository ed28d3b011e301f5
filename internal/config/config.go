package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings of a splice session
type Config struct {
	Snap     SnapConfig     `mapstructure:"snap"`
	Undo     UndoConfig     `mapstructure:"undo"`
	Timeline TimelineConfig `mapstructure:"timeline"`
	Log      LogConfig      `mapstructure:"log"`
}

// SnapConfig holds interactive snapping settings
type SnapConfig struct {
	Tolerance int `mapstructure:"tolerance"`
}

// UndoConfig holds undo log settings
type UndoConfig struct {
	// MaxDepth bounds the undo log; 0 keeps every entry
	MaxDepth int `mapstructure:"max_depth"`
}

// TimelineConfig holds the shape of a fresh timeline
type TimelineConfig struct {
	// Tracks is the number of empty tracks created before a script runs
	Tracks int `mapstructure:"tracks"`
}

// LogConfig holds logging settings
type LogConfig struct {
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
}

// Default values
const (
	DefaultSnapTolerance = 10
	DefaultUndoMaxDepth  = 100
	EnvPrefix            = "SPLICE"
)

// Load reads configuration. When path is empty the default locations are
// searched and a missing file is not an error; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("snap.tolerance", DefaultSnapTolerance)
	v.SetDefault("undo.max_depth", DefaultUndoMaxDepth)
	v.SetDefault("timeline.tracks", 0)
	v.SetDefault("log.file", "")
	v.SetDefault("log.debug", false)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".splice")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "splice"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no timeline can run with
func (c Config) Validate() error {
	if c.Snap.Tolerance < 0 {
		return fmt.Errorf("snap.tolerance must not be negative, got %d", c.Snap.Tolerance)
	}
	if c.Undo.MaxDepth < 0 {
		return fmt.Errorf("undo.max_depth must not be negative, got %d", c.Undo.MaxDepth)
	}
	if c.Timeline.Tracks < 0 {
		return fmt.Errorf("timeline.tracks must not be negative, got %d", c.Timeline.Tracks)
	}
	return nil
}
