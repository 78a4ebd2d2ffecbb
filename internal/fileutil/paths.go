package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var videoExtensions = []string{
	".mp4", ".mov", ".avi", ".mkv", ".flv",
	".wmv", ".webm", ".m4v", ".mpeg", ".mpg",
}

// IsVideoFile reports whether the path carries a recognized video extension.
func IsVideoFile(path string) bool {
	return slices.Contains(videoExtensions, strings.ToLower(filepath.Ext(path)))
}

// VideoExtensions lists the extensions IsVideoFile accepts.
func VideoExtensions() []string {
	return slices.Clone(videoExtensions)
}

// ExpandPatterns resolves arguments into concrete paths, expanding
// shell-style wildcards that survived the caller's shell (quoted globs,
// shells that do not expand). Literal paths pass through untouched. A
// pattern matching nothing is an error so a typo cannot silently convert
// zero files.
func ExpandPatterns(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			add(arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match pattern %q", arg)
		}
		for _, match := range matches {
			add(match)
		}
	}
	return paths, nil
}

// DeriveOutputPath decides where the GIF for inputPath lands.
//
// An empty target produces a sibling of the input with a .gif extension. A
// target naming an existing directory, or ending in a path separator, is
// treated as a directory and created on demand; the GIF keeps the input's
// stem. Any other target is used verbatim as the output file.
func DeriveOutputPath(inputPath, target string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	gifName := stem + ".gif"

	target = strings.TrimSpace(target)
	if target == "" {
		return filepath.Join(filepath.Dir(inputPath), gifName), nil
	}

	dirTarget := strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(os.PathSeparator))
	if !dirTarget {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			dirTarget = true
		}
	}
	if dirTarget {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return filepath.Join(target, gifName), nil
	}
	return target, nil
}
