// Package config loads, normalizes, and validates gifpress configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GIFPRESS_FFMPEG. The Config type centralizes every knob the CLI needs so
// directories, tool binaries, and conversion defaults are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
