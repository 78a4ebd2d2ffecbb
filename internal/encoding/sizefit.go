package encoding

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"gifpress/internal/fileutil"
	"gifpress/internal/logging"
	"gifpress/internal/services"
)

// Reduction policy. Each retry shrinks the frame rate and/or the output
// width to reductionPercent of the prior attempt, never below the
// floors, and never more than maxAttempts pipeline invocations total.
const (
	maxAttempts      = 5
	reductionPercent = 70
	minRate          = 5
	minWidth         = 16
)

// AttemptRunner runs one two-pass conversion and reports the resulting
// artifact size. *Runner satisfies it.
type AttemptRunner interface {
	Run(ctx context.Context, cfg ConversionConfig) (int64, error)
}

// Fitter wraps an AttemptRunner in the bounded size-fitting search.
type Fitter struct {
	runner AttemptRunner
	logger *slog.Logger
}

// NewFitter constructs a Fitter. A nil logger disables logging.
func NewFitter(runner AttemptRunner, logger *slog.Logger) *Fitter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fitter{runner: runner, logger: logger}
}

// Fit produces cfg.OutputPath, rerunning the pipeline with reduced
// parameters while the artifact exceeds cfg.MaxSizeBytes. Without a
// ceiling the pipeline runs exactly once. Retries stop at the first
// attempt that fits; on exhaustion the smallest attempt is kept and the
// result reports Success=false alongside the shortfall. A pipeline
// error aborts the search immediately, since a broken encoder will not
// be fixed by different parameters.
func (f *Fitter) Fit(ctx context.Context, cfg ConversionConfig) (Result, error) {
	if f.runner == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "encode", "fit", "Attempt runner unavailable", nil)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if cfg.MaxSizeBytes <= 0 {
		size, err := f.runner.Run(ctx, cfg)
		if err != nil {
			return Result{}, err
		}
		return Result{
			OutputPath: cfg.OutputPath,
			SizeBytes:  size,
			FPS:        cfg.FPS,
			Width:      cfg.Width,
			Success:    true,
			Attempts:   1,
		}, nil
	}
	return f.fit(ctx, cfg)
}

// fit runs the bounded search. Every attempt encodes into a uniquely
// named staging file beside the final output; the winner is renamed into
// place afterward so the artifact on disk always matches the reported
// size, even when a later attempt loses to an earlier one.
func (f *Fitter) fit(ctx context.Context, cfg ConversionConfig) (Result, error) {
	current := cfg
	var trail []string
	var best attempt
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			f.discard(best.path)
			return Result{}, err
		}

		attempts++
		staged := current
		staged.OutputPath = stagingPath(cfg.OutputPath)
		size, err := f.runner.Run(ctx, staged)
		if err != nil {
			f.discard(staged.OutputPath)
			f.discard(best.path)
			return Result{}, err
		}
		f.logger.Info("size-fit attempt complete",
			logging.Int(logging.FieldAttempt, attempts),
			logging.String("size", fileutil.FormatBytes(size)),
			logging.String("ceiling", fileutil.FormatBytes(cfg.MaxSizeBytes)),
		)

		if best.path == "" || size < best.size {
			f.discard(best.path)
			best = attempt{index: attempts, config: current, path: staged.OutputPath, size: size}
		} else {
			f.discard(staged.OutputPath)
		}

		if size <= cfg.MaxSizeBytes || attempts == maxAttempts {
			break
		}
		reduced, note, ok := reduce(current, attempts+1)
		if !ok {
			f.logger.Debug("no further reductions possible",
				logging.Int(logging.FieldAttempt, attempts))
			break
		}
		f.logger.Info("reducing conversion parameters", logging.String("adjustment", note))
		current = reduced
		trail = append(trail, note)
	}

	if err := fileutil.MoveFile(best.path, cfg.OutputPath); err != nil {
		f.discard(best.path)
		return Result{}, services.Wrap(
			services.ErrTransient,
			"encode",
			"finalize output",
			"Failed to move converted artifact into place",
			err,
		)
	}
	f.logger.Debug("promoted staged attempt",
		logging.Int(logging.FieldAttempt, best.index),
		logging.String(logging.FieldOutput, cfg.OutputPath),
	)

	result := Result{
		OutputPath:  cfg.OutputPath,
		SizeBytes:   best.size,
		FPS:         best.config.FPS,
		Width:       best.config.Width,
		Adjustments: trail,
		Success:     best.size <= cfg.MaxSizeBytes,
		SizeCeiling: cfg.MaxSizeBytes,
		Attempts:    attempts,
	}
	if !result.Success {
		result.FailureReason = fmt.Sprintf(
			"output is %s over the %s ceiling after %d attempts",
			fileutil.FormatBytes(result.Shortfall()), fileutil.FormatBytes(cfg.MaxSizeBytes), attempts,
		)
	}
	return result, nil
}

func (f *Fitter) discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("failed to remove staged attempt",
			logging.String("path", path),
			logging.Error(err),
		)
	}
}

func stagingPath(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), "gifpress-attempt-"+uuid.NewString()+".gif")
}

// reduce computes the configuration for the next attempt. The schedule
// shrinks the frame rate on attempt 2, the width on attempt 3, and both
// together on attempts 4 and 5. A dimension that cannot shrink (already
// at its floor, or tracking the source) hands its turn to the other;
// when neither can move the search is over.
func reduce(cfg ConversionConfig, attemptIndex int) (ConversionConfig, string, bool) {
	wantRate := attemptIndex == 2 || attemptIndex >= 4
	wantWidth := attemptIndex >= 3

	rate, rateOK := reducedRate(cfg.FPS)
	width, widthOK := reducedWidth(cfg.Width)

	applyRate := wantRate && rateOK
	applyWidth := wantWidth && widthOK
	if !applyRate && !applyWidth {
		applyRate = rateOK
		applyWidth = widthOK
	}

	next := cfg
	var note string
	switch {
	case applyRate && applyWidth:
		note = fmt.Sprintf("reduced fps %d→%d, width %d→%d", cfg.FPS, rate, cfg.Width, width)
		next.FPS = rate
		next.Width = width
	case applyRate:
		note = fmt.Sprintf("reduced fps %d→%d", cfg.FPS, rate)
		next.FPS = rate
	case applyWidth:
		note = fmt.Sprintf("reduced width %d→%d", cfg.Width, width)
		next.Width = width
	default:
		return cfg, "", false
	}
	return next, note, true
}

// reducedRate shrinks fps to reductionPercent, clamping at minRate. The
// SourceRate sentinel has no concrete value to shrink and reports false.
func reducedRate(fps int) (int, bool) {
	if fps <= minRate {
		return fps, false
	}
	reduced := max(fps*reductionPercent/100, minRate)
	if reduced >= fps {
		return fps, false
	}
	return reduced, true
}

// reducedWidth shrinks the width to reductionPercent, clamping at
// minWidth. Width zero tracks the source and cannot shrink.
func reducedWidth(width int) (int, bool) {
	if width <= minWidth {
		return width, false
	}
	reduced := max(width*reductionPercent/100, minWidth)
	if reduced >= width {
		return width, false
	}
	return reduced, true
}
