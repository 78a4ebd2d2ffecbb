package encoding

import (
	"fmt"
	"strings"

	"gifpress/internal/services"
)

// Palette size bounds accepted by the palette generator.
const (
	MinColors = 2
	MaxColors = 256
)

// SourceRate is the frame-rate sentinel meaning "keep the source rate".
// The chain builder omits its rate stage when it sees this value.
const SourceRate = 0

// noTrim marks an optional trim offset as absent.
const noTrim = -1

// ConversionConfig carries every parameter for one conversion attempt.
// Build configs with NewConversionConfig so the optional trim offsets
// start out unset; the size-fitting controller is the only code that
// mutates a config after construction, and it works on copies.
type ConversionConfig struct {
	InputPath  string
	OutputPath string

	// TrimStart and TrimEnd are offsets in seconds into the source clip.
	// Negative values mean the bound is unset.
	TrimStart float64
	TrimEnd   float64

	// FPS is the output frame rate. SourceRate keeps the source rate.
	FPS int

	// Width is the output width in pixels; height follows the source
	// aspect ratio. Zero keeps the source width.
	Width int

	// Colors bounds the palette size, within [MinColors, MaxColors].
	Colors int

	// Dither selects the palette-application dithering strategy.
	Dither string

	// MaxSizeBytes caps the artifact size and enables the size-fitting
	// search. Zero disables the ceiling.
	MaxSizeBytes int64
}

// NewConversionConfig returns a config for the given paths with both
// trim offsets unset.
func NewConversionConfig(inputPath, outputPath string) ConversionConfig {
	return ConversionConfig{
		InputPath:  inputPath,
		OutputPath: outputPath,
		TrimStart:  noTrim,
		TrimEnd:    noTrim,
	}
}

func (c ConversionConfig) trimStartSet() bool { return c.TrimStart >= 0 }
func (c ConversionConfig) trimEndSet() bool   { return c.TrimEnd >= 0 }

// Validate checks the config invariants. Violations are usage errors
// surfaced before any external process runs.
func (c ConversionConfig) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return invalidConfig("Input path is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return invalidConfig("Output path is required")
	}
	if c.trimEndSet() {
		start := 0.0
		if c.trimStartSet() {
			start = c.TrimStart
		}
		if c.TrimEnd <= start {
			return invalidConfig(fmt.Sprintf("Trim end %v must be greater than trim start %v", c.TrimEnd, start))
		}
	}
	if c.FPS < 0 {
		return invalidConfig("Frame rate cannot be negative")
	}
	if c.Width < 0 {
		return invalidConfig("Width cannot be negative")
	}
	if c.Colors < MinColors || c.Colors > MaxColors {
		return invalidConfig(fmt.Sprintf("Palette size must be between %d and %d colors, got %d", MinColors, MaxColors, c.Colors))
	}
	if !KnownDither(c.Dither) {
		return invalidConfig(fmt.Sprintf("Unknown dither strategy %q", c.Dither))
	}
	if c.MaxSizeBytes < 0 {
		return invalidConfig("Size ceiling cannot be negative")
	}
	return nil
}

func invalidConfig(message string) error {
	return services.Wrap(services.ErrValidation, "encode", "validate config", message, nil)
}
