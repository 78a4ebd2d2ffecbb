package preflight

import (
	"gifpress/internal/config"
	"gifpress/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Directory checks only run for paths the configuration actually uses.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	if cfg.Paths.ScratchDir != "" {
		results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	}
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, toolResult(status))
	}

	return results
}

func toolResult(status deps.Status) Result {
	detail := status.Command
	if !status.Available && status.Detail != "" {
		detail = status.Detail
	}
	return Result{Name: status.Name, Passed: status.Available, Detail: detail}
}
