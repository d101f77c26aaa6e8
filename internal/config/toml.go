// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/keystroke/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Display  DisplayConfig  `toml:"display"`
	Log      LogConfig      `toml:"log"`
	Export   ExportConfig   `toml:"export"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Locale         *string `toml:"locale"`
	TextsDir       *string `toml:"texts-dir"`
	PollIntervalMs *int    `toml:"poll-interval-ms"`
}

// DisplayConfig maps display and feedback settings.
type DisplayConfig struct {
	Theme       *string `toml:"theme"`
	Bell        *bool   `toml:"bell"`
	ShowErrors  *bool   `toml:"show-errors"`
	ShowHistory *bool   `toml:"show-history"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// ExportConfig maps CSV export settings.
type ExportConfig struct {
	Dir *string `toml:"dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() model.Config {
	return model.Config{
		Preferences:  model.DefaultPreferences(),
		TextsDir:     DefaultTextsDir(),
		PollInterval: 200 * time.Millisecond,
		ExportDir:    DefaultExportDir(),
		LogLevel:     "info",
	}
}

// Apply overlays the values set in the file onto cfg.
func (f FileConfig) Apply(cfg *model.Config) {
	setString(&cfg.Locale, f.Practice.Locale)
	setString(&cfg.TextsDir, f.Practice.TextsDir)
	if f.Practice.PollIntervalMs != nil {
		cfg.PollInterval = time.Duration(*f.Practice.PollIntervalMs) * time.Millisecond
	}
	setString(&cfg.Theme, f.Display.Theme)
	setBool(&cfg.Bell, f.Display.Bell)
	setBool(&cfg.ShowErrors, f.Display.ShowErrors)
	setBool(&cfg.ShowHistory, f.Display.ShowHistory)
	setString(&cfg.LogFile, f.Log.File)
	setString(&cfg.LogLevel, f.Log.Level)
	setString(&cfg.ExportDir, f.Export.Dir)
}

// Validate checks a fully resolved configuration.
func Validate(cfg model.Config) error {
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be > 0")
	}
	if cfg.Theme != "dark" && cfg.Theme != "light" {
		return fmt.Errorf("theme must be dark or light, got %q", cfg.Theme)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	if cfg.Locale == "" {
		return fmt.Errorf("locale must not be empty")
	}
	return nil
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setBool(target, value *bool) {
	if value != nil {
		*target = *value
	}
}
