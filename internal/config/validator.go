package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "overlay.tick_interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateOverlay()...)
	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateExport()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func oneOf(field, value string, valid []string) []ValidationError {
	if slices.Contains(valid, value) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
	}}
}

// validateOverlay validates the OverlayConfig
func (c *Config) validateOverlay() []ValidationError {
	var errors []ValidationError
	o := c.Overlay

	if o.TickIntervalMs < 4 || o.TickIntervalMs > 1000 {
		errors = append(errors, ValidationError{
			Field:   "overlay.tick_interval_ms",
			Value:   o.TickIntervalMs,
			Message: "must be between 4 and 1000",
		})
	}

	if o.HitThresholdPx <= 0 {
		errors = append(errors, ValidationError{
			Field:   "overlay.hit_threshold_px",
			Value:   o.HitThresholdPx,
			Message: "must be positive",
		})
	}

	if o.NotificationTTLMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "overlay.notification_ttl_ms",
			Value:   o.NotificationTTLMs,
			Message: "must be positive",
		})
	}

	errors = append(errors, oneOf("overlay.start_corner", o.StartCorner, ValidCorners())...)

	if o.Width <= 0 || o.Height <= 0 {
		errors = append(errors, ValidationError{
			Field:   "overlay.width/height",
			Value:   fmt.Sprintf("%dx%d", o.Width, o.Height),
			Message: "must be positive",
		})
	}

	fonts := map[string]float64{
		"hud":          o.Fonts.HUD,
		"title":        o.Fonts.Title,
		"notification": o.Fonts.Notification,
		"body":         o.Fonts.Body,
		"small":        o.Fonts.Small,
	}
	for _, name := range []string{"hud", "title", "notification", "body", "small"} {
		if size := fonts[name]; size < 6 || size > 96 {
			errors = append(errors, ValidationError{
				Field:   "overlay.fonts." + name,
				Value:   size,
				Message: "must be between 6 and 96",
			})
		}
	}

	return errors
}

// validateStore validates the StoreConfig
func (c *Config) validateStore() []ValidationError {
	return oneOf("store.backend", c.Store.Backend, ValidBackends())
}

// validateExport validates the ExportConfig
func (c *Config) validateExport() []ValidationError {
	return oneOf("export.default_format", c.Export.DefaultFormat, ValidExportFormats())
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	return oneOf("tui.theme", c.TUI.Theme, ValidThemes())
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
