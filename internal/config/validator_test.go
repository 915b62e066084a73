package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"tick too fast", func(c *Config) { c.Overlay.TickIntervalMs = 1 }, "overlay.tick_interval_ms"},
		{"tick too slow", func(c *Config) { c.Overlay.TickIntervalMs = 5000 }, "overlay.tick_interval_ms"},
		{"zero threshold", func(c *Config) { c.Overlay.HitThresholdPx = 0 }, "overlay.hit_threshold_px"},
		{"negative ttl", func(c *Config) { c.Overlay.NotificationTTLMs = -1 }, "overlay.notification_ttl_ms"},
		{"bad corner", func(c *Config) { c.Overlay.StartCorner = "middle" }, "overlay.start_corner"},
		{"zero width", func(c *Config) { c.Overlay.Width = 0 }, "overlay.width/height"},
		{"tiny font", func(c *Config) { c.Overlay.Fonts.Small = 2 }, "overlay.fonts.small"},
		{"huge font", func(c *Config) { c.Overlay.Fonts.HUD = 200 }, "overlay.fonts.hud"},
		{"bad backend", func(c *Config) { c.Store.Backend = "postgres" }, "store.backend"},
		{"bad export format", func(c *Config) { c.Export.DefaultFormat = "pdf" }, "export.default_format"},
		{"bad theme", func(c *Config) { c.TUI.Theme = "solarized" }, "tui.theme"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestConfig_Validate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "x"
	cfg.TUI.Theme = "y"
	cfg.Logging.Level = "z"
	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3", len(errs))
	}
}
