package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const checkLabelWidth = 20

// renderCheckLine formats one preflight check as an aligned, optionally
// colored status line.
func renderCheckLine(name string, passed bool, detail string, colorize bool) string {
	token := "[ERROR]"
	color := ansiRed
	if passed {
		token = "[OK]"
		color = ansiGreen
	}
	if detail != "" {
		token += " " + detail
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, name+":", token)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

// renderSectionHeader returns the header and underline for a named output
// section.
func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// shouldColorize enables ANSI colors only when writing to a terminal.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
