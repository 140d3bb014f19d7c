// Package cli formats diagnostics printed outside the editor screen.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI reset code, shared across the package.
const reset = "\033[0m"

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
)

// ColorEnabled controls whether ANSI color codes are emitted.
// It defaults to true if stderr is a terminal and NO_COLOR is not set.
var ColorEnabled = initColorEnabled()

func initColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Error formats a message with a red cross prefix.
func Error(msg string) string {
	if ColorEnabled {
		return fmt.Sprintf("%s✗ %s%s", colorRed, msg, reset)
	}
	return "✗ " + msg
}

// Warn formats a message with a yellow warning prefix.
func Warn(msg string) string {
	if ColorEnabled {
		return fmt.Sprintf("%s⚠ %s%s", colorYellow, msg, reset)
	}
	return "⚠ " + msg
}
