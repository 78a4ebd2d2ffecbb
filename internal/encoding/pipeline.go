package encoding

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"gifpress/internal/logging"
	"gifpress/internal/services"
)

// Runner invokes the external ffmpeg binary for the two encoding passes
// of a conversion attempt.
type Runner struct {
	binary  string
	scratch string
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) RunnerOption {
	return func(r *Runner) {
		if strings.TrimSpace(binary) != "" {
			r.binary = binary
		}
	}
}

// WithScratchDir places palette artifacts under dir instead of the
// system temp directory.
func WithScratchDir(dir string) RunnerOption {
	return func(r *Runner) {
		if strings.TrimSpace(dir) != "" {
			r.scratch = dir
		}
	}
}

// WithLogger attaches a logger for command echo and ffmpeg output.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner constructs a Runner using defaults.
func NewRunner(opts ...RunnerOption) *Runner {
	runner := &Runner{binary: "ffmpeg", scratch: os.TempDir(), logger: logging.NewNop()}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run executes both encoding passes for cfg and returns the byte size of
// the artifact written to cfg.OutputPath. The intermediate palette lives
// in the scratch directory for the duration of the call and is removed
// on every exit path.
func (r *Runner) Run(ctx context.Context, cfg ConversionConfig) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	gen, apply := BuildChains(cfg)

	palettePath := filepath.Join(r.scratch, "gifpress-palette-"+uuid.NewString()+".png")
	defer os.Remove(palettePath)

	paletteArgs := []string{"-hide_banner", "-v", "error", "-y", "-i", cfg.InputPath, "-vf", gen.Render(), palettePath}
	if err := r.runPass(ctx, "generate palette", paletteArgs); err != nil {
		return 0, err
	}
	if err := checkArtifact(palettePath); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "encode", "generate palette", "ffmpeg exited cleanly but wrote no palette", err)
	}

	encodeArgs := []string{"-hide_banner", "-v", "error", "-y", "-i", cfg.InputPath, "-i", palettePath, "-lavfi", apply.Render(), "-loop", "0", cfg.OutputPath}
	if err := r.runPass(ctx, "encode gif", encodeArgs); err != nil {
		return 0, err
	}

	info, err := os.Stat(cfg.OutputPath)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "encode", "encode gif", "ffmpeg exited cleanly but wrote no output", err)
	}
	if info.Size() == 0 {
		return 0, services.Wrap(services.ErrExternalTool, "encode", "encode gif", "ffmpeg wrote an empty output file", nil)
	}
	return info.Size(), nil
}

// runPass launches one ffmpeg invocation, streaming its combined output
// through the logger and folding captured lines into any failure.
func (r *Runner) runPass(ctx context.Context, operation string, args []string) error {
	r.logger.Debug("running ffmpeg",
		logging.String("operation", operation),
		logging.String("command", r.binary+" "+strings.Join(args, " ")),
	)

	cmd := commandContext(ctx, r.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", operation, "Failed to attach to ffmpeg output", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", operation, "Failed to launch ffmpeg", err)
	}

	var captured []string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		captured = append(captured, line)
		r.logger.Debug("ffmpeg output", logging.String("line", line))
	}
	readErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		detail := err
		if len(captured) > 0 {
			detail = fmt.Errorf("%w: %s", err, strings.Join(captured, "; "))
		}
		return services.Wrap(services.ErrExternalTool, "encode", operation, "ffmpeg exited with an error", detail)
	}
	if readErr != nil {
		return services.Wrap(services.ErrExternalTool, "encode", operation, "Failed to read ffmpeg output", readErr)
	}
	return nil
}

func checkArtifact(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("artifact %s is empty", filepath.Base(path))
	}
	return nil
}
