package encoding

import (
	"context"
	"os/exec"
)

// commandContext is the process launcher used by the pipeline runner.
// It is a package-level variable so tests can substitute a fake encoder.
var commandContext = exec.CommandContext

// SetExecForTests overrides the process launcher during tests.
func SetExecForTests(fn func(context.Context, string, ...string) *exec.Cmd) func() {
	previous := commandContext
	commandContext = fn
	return func() {
		commandContext = previous
	}
}
