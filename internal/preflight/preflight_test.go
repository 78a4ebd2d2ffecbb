package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"gifpress/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func writeToolStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write %s stub: %v", name, err)
	}
	return path
}

func TestRunAll_CoversDirectoriesAndTools(t *testing.T) {
	tools := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.ScratchDir = ""
	cfg.Paths.OutputDir = ""
	cfg.Tools.FFmpeg = writeToolStub(t, tools, "ffmpeg")
	cfg.Tools.FFprobe = writeToolStub(t, tools, "ffprobe")

	results := RunAll(&cfg)
	// log dir + data dir + ffmpeg + ffprobe
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %#v", len(results), results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesConfiguredScratchAndOutput(t *testing.T) {
	tools := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Tools.FFmpeg = writeToolStub(t, tools, "ffmpeg")
	cfg.Tools.FFprobe = writeToolStub(t, tools, "ffprobe")

	results := RunAll(&cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.Name] = true
	}
	for _, want := range []string{"Scratch directory", "Output directory", "FFmpeg", "FFprobe"} {
		if !names[want] {
			t.Errorf("expected a %q check in results", want)
		}
	}
}

func TestRunAll_ReportsMissingTool(t *testing.T) {
	tools := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Tools.FFmpeg = "definitely-not-installed-ffmpeg"
	cfg.Tools.FFprobe = writeToolStub(t, tools, "ffprobe")

	results := RunAll(&cfg)
	var ffmpeg *Result
	for i := range results {
		if results[i].Name == "FFmpeg" {
			ffmpeg = &results[i]
		}
	}
	if ffmpeg == nil {
		t.Fatal("expected an FFmpeg check in results")
	}
	if ffmpeg.Passed {
		t.Fatal("expected missing ffmpeg to fail the check")
	}
	if ffmpeg.Detail == "" {
		t.Fatal("expected detail naming the missing binary")
	}
}
