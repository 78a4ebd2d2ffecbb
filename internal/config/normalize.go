package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeDefaults()
	c.normalizeLogging()
	c.normalizeHistory()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if trimmed := strings.TrimSpace(c.Paths.OutputDir); trimmed != "" {
		if c.Paths.OutputDir, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	} else {
		c.Paths.OutputDir = ""
	}
	if trimmed := strings.TrimSpace(c.Paths.ScratchDir); trimmed != "" {
		if c.Paths.ScratchDir, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.scratch_dir: %w", err)
		}
	} else {
		c.Paths.ScratchDir = ""
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		if value, ok := os.LookupEnv("GIFPRESS_FFMPEG"); ok && strings.TrimSpace(value) != "" {
			c.Tools.FFmpeg = strings.TrimSpace(value)
		} else {
			c.Tools.FFmpeg = defaultFFmpeg
		}
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		if value, ok := os.LookupEnv("GIFPRESS_FFPROBE"); ok && strings.TrimSpace(value) != "" {
			c.Tools.FFprobe = strings.TrimSpace(value)
		} else {
			c.Tools.FFprobe = defaultFFprobe
		}
	}
}

func (c *Config) normalizeDefaults() {
	c.Defaults.Preset = strings.ToLower(strings.TrimSpace(c.Defaults.Preset))
	if c.Defaults.Preset == "" {
		c.Defaults.Preset = defaultPreset
	}
	c.Defaults.Dither = strings.ToLower(strings.TrimSpace(c.Defaults.Dither))
	if c.Defaults.Dither == "" {
		c.Defaults.Dither = defaultDither
	}
	if c.Defaults.MaxSizeMB < 0 {
		c.Defaults.MaxSizeMB = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() {
	if c.History.Keep <= 0 {
		c.History.Keep = defaultHistoryKeep
	}
}
