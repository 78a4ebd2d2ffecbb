package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	ScratchDir string `toml:"scratch_dir"`
	LogDir     string `toml:"log_dir"`
	DataDir    string `toml:"data_dir"`
}

// Tools contains the external binaries gifpress drives.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Defaults contains conversion parameters applied when flags omit them.
type Defaults struct {
	Preset    string  `toml:"preset"`
	Dither    string  `toml:"dither"`
	MaxSizeMB float64 `toml:"max_size_mb"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the conversion history store.
type History struct {
	Enabled bool `toml:"enabled"`
	Keep    int  `toml:"keep"`
}

// Config encapsulates all configuration values for gifpress.
//
// Configuration sections by subsystem:
//   - Paths: output, scratch, log, and data directories
//   - Tools: ffmpeg/ffprobe binary overrides
//   - Defaults: preset, dither strategy, and size ceiling defaults
//   - Logging: log format and level
//   - History: conversion history store switch and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tools    Tools    `toml:"tools"`
	Defaults Defaults `toml:"defaults"`
	Logging  Logging  `toml:"logging"`
	History  History  `toml:"history"`
}

// DefaultConfigPath returns where gifpress looks for its configuration
// when no --config flag or project file overrides it.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gifpress/config.toml")
}

// Load reads the configuration file at path, or the first discovered
// default location, then applies environment overrides, normalization,
// and validation. It reports the resolved location and whether a file
// was actually found there.
func Load(path string) (*Config, string, bool, error) {
	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath picks the file to load: an explicit path wins, then
// the default location, then gifpress.toml in the working directory.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		switch _, statErr := os.Stat(expanded); {
		case statErr == nil:
			return expanded, true, nil
		case errors.Is(statErr, fs.ErrNotExist):
			return expanded, false, nil
		default:
			return "", false, fmt.Errorf("stat config: %w", statErr)
		}
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("gifpress.toml")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories gifpress writes into. The output
// directory is only created when one is configured; per-invocation output
// directories are handled by the CLI.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ScratchDir) != "" {
		if err := os.MkdirAll(c.Paths.ScratchDir, 0o755); err != nil {
			return fmt.Errorf("create scratch directory %q: %w", c.Paths.ScratchDir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", c.Paths.OutputDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable to invoke.
func (c *Config) FFmpegBinary() string {
	return c.Tools.FFmpeg
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return c.Tools.FFprobe
}

// ScratchDirOrDefault returns the scratch directory for temporary artifacts,
// falling back to the system temp directory.
func (c *Config) ScratchDirOrDefault() string {
	if dir := strings.TrimSpace(c.Paths.ScratchDir); dir != "" {
		return dir
	}
	return os.TempDir()
}

// HistoryDBPath returns the SQLite path for the conversion history store.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	expanded, err := expandTilde(pathValue)
	if err != nil {
		return "", err
	}
	absolute, err := filepath.Abs(filepath.Clean(expanded))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", expanded, err)
	}
	return absolute, nil
}

func expandTilde(pathValue string) (string, error) {
	if !strings.HasPrefix(pathValue, "~") {
		return pathValue, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	rest := pathValue[1:]
	switch {
	case rest == "":
		return home, nil
	case rest[0] == '/' || rest[0] == '\\':
		return filepath.Join(home, rest[1:]), nil
	}
	// ~otheruser is left untouched; only the invoking user's home expands.
	return pathValue, nil
}

// ExpandPath resolves ~ and relative segments the same way config
// loading does, for callers handling user-supplied paths.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the embedded sample configuration to path,
// creating parent directories as needed.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
