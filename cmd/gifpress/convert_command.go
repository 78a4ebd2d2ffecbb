package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gifpress/internal/config"
	"gifpress/internal/deps"
	"gifpress/internal/encoding"
	"gifpress/internal/fileutil"
	"gifpress/internal/history"
	"gifpress/internal/logging"
	"gifpress/internal/media/ffprobe"
	"gifpress/internal/preset"
	"gifpress/internal/services"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputTarget string
		presetName   string
		fpsValue     string
		width        int
		colors       int
		trimStart    float64
		trimEnd      float64
		ditherName   string
		maxSizeMB    float64
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input>...",
		Short: "Convert videos to animated GIFs",
		Long: `Convert one or more videos into animated GIFs using a two-pass
palette pipeline. When a size ceiling is set, conversions retry with
reduced frame rate and width until the output fits or five attempts
are spent; the smallest attempt is kept when none fits.

Examples:
  gifpress convert clip.mp4
  gifpress convert clip.mp4 -o clips/ --preset high
  gifpress convert *.mov --max-size 8 --fps 12
  gifpress convert clip.mp4 --start 2.5 --end 7 --width 480`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := newConvertLogger(cfg, verbose)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			inputs, err := fileutil.ExpandPatterns(args)
			if err != nil {
				return err
			}
			for _, input := range inputs {
				if !fileutil.IsVideoFile(input) {
					return fmt.Errorf("unsupported input %q (expected one of: %s)", input, strings.Join(fileutil.VideoExtensions(), ", "))
				}
				if _, err := os.Stat(input); err != nil {
					return fmt.Errorf("inspect input %q: %w", input, err)
				}
			}

			target := strings.TrimSpace(outputTarget)
			if target != "" && len(inputs) > 1 && !directoryTarget(target) {
				return fmt.Errorf("--output %q names a single file but %d inputs were given; pass a directory instead", target, len(inputs))
			}
			if target == "" {
				target = cfg.Paths.OutputDir
			}

			name := strings.TrimSpace(presetName)
			if name == "" {
				name = cfg.Defaults.Preset
			}
			chosen, ok := preset.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown preset %q (known presets: %s)", name, strings.Join(preset.Names(), ", "))
			}

			overrides := preset.Overrides{Width: width, Colors: colors}
			if value := strings.TrimSpace(fpsValue); value != "" {
				if strings.EqualFold(value, "source") {
					overrides.FPS = preset.SourceFPS
					overrides.FPSSet = true
				} else {
					fps, err := strconv.Atoi(value)
					if err != nil || fps <= 0 {
						return fmt.Errorf("invalid --fps %q: expected a positive integer or \"source\"", value)
					}
					overrides.FPS = fps
					overrides.FPSSet = true
				}
			}

			dither := strings.TrimSpace(ditherName)
			if dither == "" {
				dither = cfg.Defaults.Dither
			}
			if !encoding.KnownDither(dither) {
				return fmt.Errorf("unknown dither strategy %q (known strategies: %s)", dither, strings.Join(encoding.DitherNames(), ", "))
			}

			maxMB := cfg.Defaults.MaxSizeMB
			if cmd.Flags().Changed("max-size") {
				maxMB = maxSizeMB
			}
			if maxMB < 0 {
				return fmt.Errorf("--max-size cannot be negative")
			}

			conv := &converter{
				cfg:         cfg,
				logger:      logger,
				probeBinary: deps.ResolveFFprobe(cfg.FFmpegBinary(), cfg.FFprobeBinary()),
				presetName:  name,
				settings:    preset.Resolve(chosen, overrides),
				dither:      dither,
				maxBytes:    int64(maxMB * 1024 * 1024),
				trimStart:   -1,
				trimEnd:     -1,
				target:      target,
			}
			if cmd.Flags().Changed("start") {
				if trimStart < 0 {
					return fmt.Errorf("--start cannot be negative")
				}
				conv.trimStart = trimStart
			}
			if cmd.Flags().Changed("end") {
				if trimEnd < 0 {
					return fmt.Errorf("--end cannot be negative")
				}
				conv.trimEnd = trimEnd
			}

			if cfg.History.Enabled {
				store, err := history.Open(cfg)
				if err != nil {
					logger.Warn("conversion history unavailable", logging.Error(err))
				} else {
					conv.store = store
					defer store.Close()
				}
			}

			out := cmd.OutOrStdout()
			outcomes := make([]fileOutcome, 0, len(inputs))
			produced := 0
			for _, input := range inputs {
				result, outputPath, err := conv.convertOne(cmd.Context(), input)
				if err != nil {
					if services.IsUsageError(err) {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "convert %s: %v\n", input, err)
					outcomes = append(outcomes, fileOutcome{input: input, output: outputPath, err: err})
					continue
				}
				produced++
				fmt.Fprintf(out, "Converted %s → %s (%s, %d attempts)\n", input, result.OutputPath, fileutil.FormatBytes(result.SizeBytes), result.Attempts)
				for _, adjustment := range result.Adjustments {
					fmt.Fprintf(out, "  %s\n", adjustment)
				}
				if !result.Success {
					fmt.Fprintf(out, "  warning: %s\n", result.FailureReason)
				}
				outcomes = append(outcomes, fileOutcome{input: input, output: outputPath, result: result})
			}

			if len(inputs) > 1 {
				fmt.Fprintln(out)
				summary := renderTable(
					[]string{"Input", "Output", "Size", "Attempts", "Status"},
					convertSummaryRows(outcomes),
					2, 3,
				)
				fmt.Fprintln(out, summary)
			}

			if produced == 0 {
				return fmt.Errorf("no conversions succeeded (%d failed)", len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputTarget, "output", "o", "", "Output file (single input) or directory (trailing separator creates it)")
	cmd.Flags().StringVarP(&presetName, "preset", "q", "", "Quality preset: low, medium, high, max")
	cmd.Flags().StringVar(&fpsValue, "fps", "", "Output frame rate (positive integer or \"source\")")
	cmd.Flags().IntVar(&width, "width", 0, "Output width in pixels (height follows the aspect ratio)")
	cmd.Flags().IntVar(&colors, "colors", 0, "Palette size, 2-256")
	cmd.Flags().Float64Var(&trimStart, "start", 0, "Start offset in seconds")
	cmd.Flags().Float64Var(&trimEnd, "end", 0, "End offset in seconds")
	cmd.Flags().StringVar(&ditherName, "dither", "", "Dither strategy: bayer, floyd_steinberg, sierra2, sierra2_4a, none")
	cmd.Flags().Float64Var(&maxSizeMB, "max-size", 0, "Size ceiling in MB (0 disables the ceiling)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging with ffmpeg output")

	return cmd
}

// converter carries the per-invocation state shared by every file in a
// batch. Flags are resolved once; only the probed frame-rate adjustments
// vary per file.
type converter struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *history.Store
	probeBinary string
	presetName  string
	settings    preset.Settings
	dither      string
	maxBytes    int64
	trimStart   float64
	trimEnd     float64
	target      string
}

type fileOutcome struct {
	input  string
	output string
	result encoding.Result
	err    error
}

func (c *converter) convertOne(parent context.Context, input string) (encoding.Result, string, error) {
	outputPath, err := fileutil.DeriveOutputPath(input, c.target)
	if err != nil {
		return encoding.Result{}, "", err
	}

	lock := flock.New(outputPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return encoding.Result{}, outputPath, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return encoding.Result{}, outputPath, fmt.Errorf("another gifpress run is writing %s", outputPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Warn("failed to release output lock",
				logging.String(logging.FieldOutput, outputPath),
				logging.Error(err),
			)
		}
	}()

	ctx := services.WithRequestID(services.WithInputPath(parent, input), uuid.NewString())

	probeCtx := services.WithStage(ctx, "probe")
	settings, err := c.resolveSettings(probeCtx, logging.WithContext(probeCtx, c.logger), input)
	if err != nil {
		return encoding.Result{}, outputPath, err
	}

	encodeCtx := services.WithStage(ctx, "encode")
	fileLogger := logging.WithContext(encodeCtx, c.logger)

	conv := encoding.NewConversionConfig(input, outputPath)
	conv.TrimStart = c.trimStart
	conv.TrimEnd = c.trimEnd
	conv.FPS = settings.FPS
	conv.Width = settings.Width
	conv.Colors = settings.Colors
	conv.Dither = c.dither
	conv.MaxSizeBytes = c.maxBytes

	runner := encoding.NewRunner(
		encoding.WithBinary(c.cfg.FFmpegBinary()),
		encoding.WithScratchDir(c.cfg.ScratchDirOrDefault()),
		encoding.WithLogger(logging.NewComponentLogger(fileLogger, "ffmpeg")),
	)
	fitter := encoding.NewFitter(runner, logging.NewComponentLogger(fileLogger, "sizefit"))

	started := time.Now()
	result, err := fitter.Fit(encodeCtx, conv)
	c.record(ctx, input, outputPath, settings, result, err, time.Since(started))
	if err != nil {
		return encoding.Result{}, outputPath, err
	}
	return result, outputPath, nil
}

// resolveSettings probes the source and applies the frame-rate rules: a
// "source" sentinel is pinned when the native rate exceeds what GIF
// timing can honor, and short clips get a small rate bump. A failed
// probe is fatal only when the sentinel needs a concrete native rate.
func (c *converter) resolveSettings(ctx context.Context, logger *slog.Logger, input string) (preset.Settings, error) {
	probed, err := ffprobe.Inspect(ctx, c.probeBinary, input)
	if err != nil {
		if c.settings.FPS == preset.SourceFPS {
			return preset.Settings{}, services.Wrap(services.ErrExternalTool, "probe", "read frame rate", "Cannot resolve the source frame rate", err)
		}
		logger.Warn("probe failed; skipping frame-rate adjustments", logging.Error(err))
		return c.settings, nil
	}
	if probed.VideoStreamCount() == 0 {
		return preset.Settings{}, fmt.Errorf("no video stream in %s", input)
	}

	resolved := preset.ResolveRate(c.settings, probed.FrameRate(), probed.DurationSeconds())
	if resolved.FPS != c.settings.FPS {
		logger.Debug("adjusted frame rate from source properties",
			logging.Int("fps", resolved.FPS),
			logging.Float64("native_rate", probed.FrameRate()),
			logging.Float64("duration_seconds", probed.DurationSeconds()),
		)
	}
	return resolved, nil
}

// record persists the outcome to the history store when one is open.
// Recording is best effort and never fails the conversion.
func (c *converter) record(ctx context.Context, input, outputPath string, settings preset.Settings, result encoding.Result, runErr error, elapsed time.Duration) {
	if c.store == nil {
		return
	}
	rec := &history.Record{
		InputPath:   input,
		OutputPath:  outputPath,
		Preset:      c.presetName,
		FPS:         settings.FPS,
		Width:       settings.Width,
		Colors:      settings.Colors,
		Dither:      c.dither,
		SizeCeiling: c.maxBytes,
		Duration:    elapsed,
	}
	if runErr != nil {
		rec.Success = false
		rec.FailureReason = runErr.Error()
	} else {
		rec.FPS = result.FPS
		rec.Width = result.Width
		rec.SizeBytes = result.SizeBytes
		rec.Attempts = result.Attempts
		rec.Adjustments = result.Adjustments
		rec.Success = result.Success
		rec.FailureReason = result.FailureReason
	}
	if err := c.store.Add(ctx, rec); err != nil {
		c.logger.Warn("failed to record conversion history", logging.Error(err))
	}
}

func newConvertLogger(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	if !verbose {
		return logging.NewFromConfig(cfg)
	}
	debugCfg := *cfg
	debugCfg.Logging.Level = "debug"
	return logging.NewFromConfig(&debugCfg)
}

func directoryTarget(target string) bool {
	if strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}

func convertSummaryRows(outcomes []fileOutcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, oc := range outcomes {
		output := "-"
		if oc.output != "" {
			output = filepath.Base(oc.output)
		}
		row := []string{filepath.Base(oc.input), output, "-", "-", ""}
		switch {
		case oc.err != nil:
			row[4] = "failed"
		case !oc.result.Success:
			row[2] = fileutil.FormatBytes(oc.result.SizeBytes)
			row[3] = strconv.Itoa(oc.result.Attempts)
			row[4] = "over ceiling"
		default:
			row[2] = fileutil.FormatBytes(oc.result.SizeBytes)
			row[3] = strconv.Itoa(oc.result.Attempts)
			row[4] = "ok"
		}
		rows = append(rows, row)
	}
	return rows
}
