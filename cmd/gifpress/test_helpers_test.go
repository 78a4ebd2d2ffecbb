package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gifpress/internal/testsupport"
)

// probeStubScript emits a fixed ffprobe payload: a ten second 29.97fps
// 1920x1080 clip.
const probeStubScript = `#!/bin/sh
cat <<'JSON'
{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "avg_frame_rate": "30000/1001",
      "r_frame_rate": "30000/1001",
      "duration": "10.010000"
    }
  ],
  "format": {
    "filename": "clip.mp4",
    "nb_streams": 1,
    "duration": "10.010000",
    "size": "5242880",
    "bit_rate": "4190000",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}
JSON
exit 0
`

// ffmpegStubScript writes a small artifact to its final argument, which
// is the palette path on pass one and the gif path on pass two. Set
// GIFPRESS_TEST_CALLS to a file path to log each invocation.
const ffmpegStubScript = `#!/bin/sh
if [ -n "$GIFPRESS_TEST_CALLS" ]; then
    echo "$@" >> "$GIFPRESS_TEST_CALLS"
fi
for arg in "$@"; do last="$arg"; done
printf 'GIF89a-stub-frame-data' > "$last"
exit 0
`

type cliTestEnv struct {
	base       string
	binDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		base:       base,
		binDir:     filepath.Join(base, "bin"),
		configPath: filepath.Join(base, "config.toml"),
	}
	if err := os.MkdirAll(env.binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	env.writeConfig(t)
	env.stubTool(t, "ffmpeg", ffmpegStubScript)
	env.stubTool(t, "ffprobe", probeStubScript)
	return env
}

func (e *cliTestEnv) writeConfig(t *testing.T, extra ...string) {
	t.Helper()
	lines := []string{
		"[paths]",
		fmt.Sprintf("scratch_dir = %q", filepath.Join(e.base, "scratch")),
		fmt.Sprintf("log_dir = %q", filepath.Join(e.base, "logs")),
		fmt.Sprintf("data_dir = %q", filepath.Join(e.base, "data")),
		"",
		"[tools]",
		fmt.Sprintf("ffmpeg = %q", filepath.Join(e.binDir, "ffmpeg")),
		fmt.Sprintf("ffprobe = %q", filepath.Join(e.binDir, "ffprobe")),
	}
	lines = append(lines, extra...)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) stubTool(t *testing.T, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.binDir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write %s stub: %v", name, err)
	}
}

func (e *cliTestEnv) videoFixture(t *testing.T, name string) string {
	t.Helper()
	return testsupport.VideoFixture(t, filepath.Join(e.base, "clips"), name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
