// Package ui prints user-facing messages.
//
// Warnings and errors go to stderr with a colored prefix when stderr is a
// terminal. Color helpers apply to stdout and are used by doctor output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var writer io.Writer = os.Stderr

// SetWriter overrides the message writer. nil restores os.Stderr.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	writer = w
}

var (
	stdoutColor = detectColor(os.Stdout)
	stderrColor = detectColor(os.Stderr)
)

func detectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColorEnabled overrides color detection (for testing).
func SetColorEnabled(enabled bool) {
	stdoutColor = enabled
	stderrColor = enabled
}

func paint(enabled bool, code, s string) string {
	if !enabled {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Bold returns s in bold (stdout).
func Bold(s string) string { return paint(stdoutColor, "1", s) }

// Dim returns s dimmed (stdout).
func Dim(s string) string { return paint(stdoutColor, "2", s) }

// Green returns s in green (stdout).
func Green(s string) string { return paint(stdoutColor, "32", s) }

// Red returns s in red (stdout).
func Red(s string) string { return paint(stdoutColor, "31", s) }

// Yellow returns s in yellow (stdout).
func Yellow(s string) string { return paint(stdoutColor, "33", s) }

// Section writes a bold title with a thin underline.
func Section(w io.Writer, title string) {
	fmt.Fprintln(w, Bold(title))
	fmt.Fprintln(w, Dim(strings.Repeat("─", len([]rune(title)))))
}

// OKTag returns a green check mark.
func OKTag() string { return Green("✓") }

// FailTag returns a red cross.
func FailTag() string { return Red("✗") }

// WarnTag returns a yellow warning sign.
func WarnTag() string { return Yellow("⚠") }

// Warn prints a warning to stderr.
func Warn(msg string) {
	fmt.Fprintf(writer, "%s %s\n", paint(stderrColor, "33", "Warning:"), msg)
}

// Warnf prints a formatted warning to stderr.
func Warnf(format string, args ...any) {
	Warn(fmt.Sprintf(format, args...))
}

// Error prints an error to stderr.
func Error(msg string) {
	fmt.Fprintf(writer, "%s %s\n", paint(stderrColor, "31", "Error:"), msg)
}
