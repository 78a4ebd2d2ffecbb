package encoding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gifpress/internal/services"
)

type capturedCommands struct {
	mu    sync.Mutex
	names []string
	args  [][]string
}

func (c *capturedCommands) add(name string, args []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
	c.args = append(c.args, append([]string(nil), args...))
	return len(c.args)
}

func (c *capturedCommands) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.args)
}

func (c *capturedCommands) call(i int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.args[i]
}

// setPassHelper reroutes ffmpeg invocations to the test binary. The
// helper writes the invocation's final argument (the artifact path) so
// the runner sees files appear the way a real encode would produce them.
func setPassHelper(t *testing.T, mode string) *capturedCommands {
	t.Helper()
	captured := &capturedCommands{}
	restore := SetExecForTests(func(ctx context.Context, name string, args ...string) *exec.Cmd {
		call := captured.add(name, args)
		target := ""
		if len(args) > 0 {
			target = args[len(args)-1]
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestPipelineHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"GIFPRESS_HELPER_MODE="+mode,
			"GIFPRESS_HELPER_TARGET="+target,
			fmt.Sprintf("GIFPRESS_HELPER_CALL=%d", call),
		)
		return cmd
	})
	t.Cleanup(restore)
	return captured
}

func TestPipelineHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	mode := os.Getenv("GIFPRESS_HELPER_MODE")
	target := os.Getenv("GIFPRESS_HELPER_TARGET")
	call := os.Getenv("GIFPRESS_HELPER_CALL")

	writeTarget := func(payload string) {
		if err := os.WriteFile(target, []byte(payload), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "helper write failed:", err)
			os.Exit(1)
		}
	}

	switch {
	case mode == "success":
		writeTarget("artifact-" + call)
	case mode == "palette-exit" && call == "1":
		fmt.Fprintln(os.Stderr, "Error opening input: No such file or directory")
		os.Exit(1)
	case mode == "palette-exit":
		writeTarget("artifact-" + call)
	case mode == "encode-exit" && call == "2":
		fmt.Fprintln(os.Stderr, "Error initializing filter graph")
		os.Exit(1)
	case mode == "encode-exit":
		writeTarget("artifact-" + call)
	case mode == "skip-palette" && call == "1":
		// exit cleanly without writing anything
	case mode == "skip-output" && call == "2":
		// exit cleanly without writing anything
	case mode == "empty-output" && call == "2":
		writeTarget("")
	default:
		writeTarget("artifact-" + call)
	}
	os.Exit(0)
}

func runnerConfig(t *testing.T) ConversionConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := NewConversionConfig(filepath.Join(dir, "clip.mp4"), filepath.Join(dir, "clip.gif"))
	cfg.TrimStart = 1
	cfg.TrimEnd = 4
	cfg.FPS = 12
	cfg.Width = 480
	cfg.Colors = 128
	cfg.Dither = DitherBayer
	return cfg
}

func paletteLeftovers(t *testing.T, scratch string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(scratch, "gifpress-palette-*"))
	if err != nil {
		t.Fatalf("glob palettes: %v", err)
	}
	return matches
}

func TestRunnerTwoPassInvocation(t *testing.T) {
	captured := setPassHelper(t, "success")
	scratch := t.TempDir()
	cfg := runnerConfig(t)

	runner := NewRunner(WithBinary("ffmpeg"), WithScratchDir(scratch))
	size, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if size <= 0 {
		t.Fatalf("expected positive artifact size, got %d", size)
	}
	if captured.count() != 2 {
		t.Fatalf("expected two ffmpeg invocations, got %d", captured.count())
	}

	gen, apply := BuildChains(cfg)

	pass1 := captured.call(0)
	palettePath := pass1[len(pass1)-1]
	if !strings.Contains(filepath.Base(palettePath), "gifpress-palette-") || !strings.HasSuffix(palettePath, ".png") {
		t.Fatalf("unexpected palette path %q", palettePath)
	}
	if filepath.Dir(palettePath) != scratch {
		t.Fatalf("palette must live in the scratch dir, got %q", palettePath)
	}
	wantPass1 := []string{"-hide_banner", "-v", "error", "-y", "-i", cfg.InputPath, "-vf", gen.Render(), palettePath}
	if strings.Join(pass1, " ") != strings.Join(wantPass1, " ") {
		t.Fatalf("unexpected pass 1 args:\n got %v\nwant %v", pass1, wantPass1)
	}

	pass2 := captured.call(1)
	wantPass2 := []string{"-hide_banner", "-v", "error", "-y", "-i", cfg.InputPath, "-i", palettePath, "-lavfi", apply.Render(), "-loop", "0", cfg.OutputPath}
	if strings.Join(pass2, " ") != strings.Join(wantPass2, " ") {
		t.Fatalf("unexpected pass 2 args:\n got %v\nwant %v", pass2, wantPass2)
	}

	if leftovers := paletteLeftovers(t, scratch); len(leftovers) != 0 {
		t.Fatalf("palette must be removed after the run, found %v", leftovers)
	}
	if _, err := os.Stat(cfg.OutputPath); err != nil {
		t.Fatalf("expected output artifact, stat err %v", err)
	}
}

func TestRunnerPaletteFailureStopsBeforePassTwo(t *testing.T) {
	captured := setPassHelper(t, "palette-exit")
	scratch := t.TempDir()
	cfg := runnerConfig(t)

	_, err := NewRunner(WithScratchDir(scratch)).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected palette generation failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "generate palette") {
		t.Fatalf("expected failure to name the palette stage, got %v", err)
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Fatalf("expected captured ffmpeg output in error, got %v", err)
	}
	if captured.count() != 1 {
		t.Fatalf("pass 2 must not run after a palette failure, got %d invocations", captured.count())
	}
	if leftovers := paletteLeftovers(t, scratch); len(leftovers) != 0 {
		t.Fatalf("palette must be cleaned up on failure, found %v", leftovers)
	}
}

func TestRunnerMissingPaletteArtifact(t *testing.T) {
	setPassHelper(t, "skip-palette")
	cfg := runnerConfig(t)

	_, err := NewRunner(WithScratchDir(t.TempDir())).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected missing palette to fail the run")
	}
	if !strings.Contains(err.Error(), "wrote no palette") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRunnerEncodeFailure(t *testing.T) {
	captured := setPassHelper(t, "encode-exit")
	scratch := t.TempDir()
	cfg := runnerConfig(t)

	_, err := NewRunner(WithScratchDir(scratch)).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected encode failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "encode gif") {
		t.Fatalf("expected failure to name the encode stage, got %v", err)
	}
	if captured.count() != 2 {
		t.Fatalf("expected both passes attempted, got %d", captured.count())
	}
	if leftovers := paletteLeftovers(t, scratch); len(leftovers) != 0 {
		t.Fatalf("palette must be cleaned up on failure, found %v", leftovers)
	}
}

func TestRunnerMissingOutput(t *testing.T) {
	setPassHelper(t, "skip-output")
	cfg := runnerConfig(t)

	_, err := NewRunner(WithScratchDir(t.TempDir())).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected missing output to fail the run")
	}
	if !strings.Contains(err.Error(), "wrote no output") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRunnerEmptyOutput(t *testing.T) {
	setPassHelper(t, "empty-output")
	cfg := runnerConfig(t)

	_, err := NewRunner(WithScratchDir(t.TempDir())).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected empty output to fail the run")
	}
	if !strings.Contains(err.Error(), "empty output") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRunnerValidatesBeforeLaunching(t *testing.T) {
	captured := setPassHelper(t, "success")
	cfg := runnerConfig(t)
	cfg.Colors = 1

	_, err := NewRunner().Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if captured.count() != 0 {
		t.Fatalf("expected no process launches, got %d", captured.count())
	}
}
