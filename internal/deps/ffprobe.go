package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFprobe reports the ffprobe binary gifpress will execute for media
// inspection.
//
// ffmpeg releases install ffprobe beside the ffmpeg binary, so when the
// ffprobe command is left at its default the lookup prefers a sidecar next to
// the resolved ffmpeg command and falls back to resolving "ffprobe" from
// PATH. Keeping the pair from the same install avoids mixing tool versions
// when a non-system ffmpeg is configured. An explicitly configured ffprobe is
// honored as-is.
func CheckFFprobe(ffmpegCommand, ffprobeCommand string) Status {
	result := Status{Name: "FFprobe"}

	probeName := strings.TrimSpace(ffprobeCommand)
	if probeName == "" {
		probeName = "ffprobe"
	}

	if probeName == "ffprobe" {
		if candidate, ok := ffprobeSidecar(ffmpegCommand); ok {
			result.Command = candidate
			result.Available = true
			return result
		}
	}

	if resolved, err := exec.LookPath(probeName); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	result.Command = probeName
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", probeName)
	return result
}

// ResolveFFprobe returns the command CheckFFprobe would execute, regardless
// of availability.
func ResolveFFprobe(ffmpegCommand, ffprobeCommand string) string {
	return CheckFFprobe(ffmpegCommand, ffprobeCommand).Command
}

func ffprobeSidecar(ffmpegCommand string) (string, bool) {
	ffmpegBinary := strings.TrimSpace(ffmpegCommand)
	if ffmpegBinary == "" {
		return "", false
	}
	resolved, err := exec.LookPath(ffmpegBinary)
	if err != nil {
		return "", false
	}
	name := "ffprobe"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	candidate := filepath.Join(filepath.Dir(resolved), name)
	info, err := os.Stat(candidate)
	if err != nil || !isExecutable(info) {
		return "", false
	}
	return candidate, true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
