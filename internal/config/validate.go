package config

import (
	"errors"
	"fmt"
)

// Preset and dither names accepted in [defaults]. The preset table itself
// lives in internal/preset; the dither expressions live in internal/encoding.
var (
	knownPresets = map[string]struct{}{
		"low": {}, "medium": {}, "high": {}, "max": {},
	}
	knownDithers = map[string]struct{}{
		"bayer": {}, "floyd_steinberg": {}, "sierra2": {}, "sierra2_4a": {}, "none": {},
	}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateHistory()
}

func (c *Config) validatePaths() error {
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateDefaults() error {
	if _, ok := knownPresets[c.Defaults.Preset]; !ok {
		return fmt.Errorf("defaults.preset: unknown preset %q (choose low, medium, high, or max)", c.Defaults.Preset)
	}
	if _, ok := knownDithers[c.Defaults.Dither]; !ok {
		return fmt.Errorf("defaults.dither: unknown strategy %q (choose bayer, floyd_steinberg, sierra2, sierra2_4a, or none)", c.Defaults.Dither)
	}
	if c.Defaults.MaxSizeMB < 0 {
		return errors.New("defaults.max_size_mb must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Keep < 1 {
		return errors.New("history.keep must be >= 1 when history.enabled is true")
	}
	return nil
}
