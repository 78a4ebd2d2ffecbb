package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names one external binary the converter shells out to.
type Requirement struct {
	Name    string
	Command string
}

// Status is the resolution outcome for one requirement.
type Status struct {
	Name      string
	Command   string
	Available bool
	Detail    string
}

// CheckBinaries resolves each requirement and reports, in order, whether
// its command can be executed.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, checkBinary(req))
	}
	return results
}

func checkBinary(req Requirement) Status {
	command := strings.TrimSpace(req.Command)
	status := Status{Name: req.Name, Command: command}
	if command == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", command)
		return status
	}
	status.Available = true
	return status
}

// CheckTools reports the availability of the conversion toolchain: the
// ffmpeg encoder and the ffprobe inspector, in that order.
func CheckTools(ffmpegCommand, ffprobeCommand string) []Status {
	statuses := CheckBinaries([]Requirement{{Name: "FFmpeg", Command: ffmpegCommand}})
	return append(statuses, CheckFFprobe(ffmpegCommand, ffprobeCommand))
}
