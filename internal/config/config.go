package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete screencoord configuration
type Config struct {
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Paths   PathsConfig   `mapstructure:"paths" yaml:"paths"`
}

// OverlayConfig controls the capture overlay
type OverlayConfig struct {
	// TickIntervalMs is the redraw cadence in milliseconds (default: 16)
	TickIntervalMs int `mapstructure:"tick_interval_ms" yaml:"tick_interval_ms"`
	// HitThresholdPx is the edit-mode selection radius (default: 20)
	HitThresholdPx float64 `mapstructure:"hit_threshold_px" yaml:"hit_threshold_px"`
	// NotificationTTLMs is how long feedback messages stay visible (default: 2000)
	NotificationTTLMs int `mapstructure:"notification_ttl_ms" yaml:"notification_ttl_ms"`
	// HelpVisible shows the controls panel when the overlay opens
	HelpVisible bool `mapstructure:"help_visible" yaml:"help_visible"`
	// StartCorner is where the coordinate readout starts.
	// Options: "top-left", "top-right", "bottom-left", "bottom-right"
	StartCorner string `mapstructure:"start_corner" yaml:"start_corner"`
	// Width and Height size the overlay window when the screen size is unknown
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
	// Backdrop freezes a screenshot of the desktop behind the overlay
	Backdrop bool `mapstructure:"backdrop" yaml:"backdrop"`
	// Fonts are text sizes in pixels
	Fonts FontConfig `mapstructure:"fonts" yaml:"fonts"`
}

// FontConfig holds overlay text sizes
type FontConfig struct {
	HUD          float64 `mapstructure:"hud" yaml:"hud"`
	Title        float64 `mapstructure:"title" yaml:"title"`
	Notification float64 `mapstructure:"notification" yaml:"notification"`
	Body         float64 `mapstructure:"body" yaml:"body"`
	Small        float64 `mapstructure:"small" yaml:"small"`
}

// StoreConfig selects where the document is persisted
type StoreConfig struct {
	// Backend is "json" (default) or "sqlite"
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path overrides the data file location. Empty uses the data directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// ExportConfig controls `screencoord export`
type ExportConfig struct {
	// DefaultFormat is "txt" (default), "md" or "html"
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
}

// TUIConfig controls the terminal browser
type TUIConfig struct {
	// Theme is "light" (default) or "dark"
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled controls whether debug.log is written (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum level logged: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB rotates debug.log at this size (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is how many rotated logs are kept (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// PathsConfig overrides where files are kept
type PathsConfig struct {
	// DataDir holds the document. Empty uses $XDG_DATA_HOME/screencoord.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// StateDir holds debug.log. Empty uses $XDG_STATE_HOME/screencoord.
	StateDir string `mapstructure:"state_dir" yaml:"state_dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Overlay: OverlayConfig{
			TickIntervalMs:    16,
			HitThresholdPx:    20,
			NotificationTTLMs: 2000,
			HelpVisible:       true,
			StartCorner:       "top-left",
			Width:             1920,
			Height:            1080,
			Backdrop:          true,
			Fonts: FontConfig{
				HUD:          21,
				Title:        21,
				Notification: 16,
				Body:         15,
				Small:        13,
			},
		},
		Store: StoreConfig{
			Backend: "json",
		},
		Export: ExportConfig{
			DefaultFormat: "txt",
		},
		TUI: TUIConfig{
			Theme: "light",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// TickInterval returns the redraw cadence as a time.Duration
func (c *OverlayConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// NotificationTTL returns the notification lifetime as a time.Duration
func (c *OverlayConfig) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationTTLMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Overlay defaults
	viper.SetDefault("overlay.tick_interval_ms", defaults.Overlay.TickIntervalMs)
	viper.SetDefault("overlay.hit_threshold_px", defaults.Overlay.HitThresholdPx)
	viper.SetDefault("overlay.notification_ttl_ms", defaults.Overlay.NotificationTTLMs)
	viper.SetDefault("overlay.help_visible", defaults.Overlay.HelpVisible)
	viper.SetDefault("overlay.start_corner", defaults.Overlay.StartCorner)
	viper.SetDefault("overlay.width", defaults.Overlay.Width)
	viper.SetDefault("overlay.height", defaults.Overlay.Height)
	viper.SetDefault("overlay.backdrop", defaults.Overlay.Backdrop)
	viper.SetDefault("overlay.fonts.hud", defaults.Overlay.Fonts.HUD)
	viper.SetDefault("overlay.fonts.title", defaults.Overlay.Fonts.Title)
	viper.SetDefault("overlay.fonts.notification", defaults.Overlay.Fonts.Notification)
	viper.SetDefault("overlay.fonts.body", defaults.Overlay.Fonts.Body)
	viper.SetDefault("overlay.fonts.small", defaults.Overlay.Fonts.Small)

	// Store defaults
	viper.SetDefault("store.backend", defaults.Store.Backend)
	viper.SetDefault("store.path", defaults.Store.Path)

	// Export defaults
	viper.SetDefault("export.default_format", defaults.Export.DefaultFormat)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Paths defaults
	viper.SetDefault("paths.data_dir", defaults.Paths.DataDir)
	viper.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it
// cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the directory holding the saved document
func (c *Config) DataDir() string {
	if c.Paths.DataDir != "" {
		return expandHome(c.Paths.DataDir)
	}
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the directory holding debug.log
func (c *Config) StateDir() string {
	if c.Paths.StateDir != "" {
		return expandHome(c.Paths.StateDir)
	}
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// StorePath returns the data file for the configured backend
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return expandHome(c.Store.Path)
	}
	name := "coordinates.json"
	if c.Store.Backend == "sqlite" {
		name = "coordinates.db"
	}
	return filepath.Join(c.DataDir(), name)
}

func xdgDir(env, homeRel string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "screencoord")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".screencoord"
	}
	return filepath.Join(home, homeRel, "screencoord")
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ValidCorners returns the accepted overlay.start_corner values
func ValidCorners() []string {
	return []string{"top-right", "bottom-right", "bottom-left", "top-left"}
}

// ValidBackends returns the accepted store.backend values
func ValidBackends() []string {
	return []string{"json", "sqlite"}
}

// ValidExportFormats returns the accepted export formats
func ValidExportFormats() []string {
	return []string{"txt", "md", "html"}
}

// ValidThemes returns the accepted tui.theme values
func ValidThemes() []string {
	return []string{"light", "dark"}
}
