package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"gifpress/internal/config"
	"gifpress/internal/deps"
)

// CheckDirectoryAccess verifies that path names a directory the current
// user can read, write, and traverse.
func CheckDirectoryAccess(name, path string) Result {
	fail := func(problem string) Result {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", path, problem)}
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fail("missing")
	case err != nil:
		return fail("stat failed: " + err.Error())
	case !info.IsDir():
		return fail("not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail("insufficient permissions: " + err.Error())
	}
	return Result{Name: name, Passed: true, Detail: path + " (read/write ok)"}
}

// CheckSystemDeps evaluates the external binaries a conversion run needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return deps.CheckTools("", "")
	}
	return deps.CheckTools(cfg.FFmpegBinary(), cfg.FFprobeBinary())
}
