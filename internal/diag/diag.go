// Package diag provides the one-line, lipgloss-styled diagnostic output
// printed by cmd/wordvec on success, fatal error and debug — the one place
// that styles human-facing status text (internal/engine writes its own
// unstyled debug lines to stderr), mirroring how
// internal/tui kept all of sift's styling in one package rather than
// scattering ad hoc ANSI codes through the command layer.
package diag

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorErr   = lipgloss.Color("#FF6B6B")
	colorGreen = lipgloss.Color("#5AF078")
	colorMuted = lipgloss.Color("#888888")

	sErr   = lipgloss.NewStyle().Foreground(colorErr).Bold(true)
	sGreen = lipgloss.NewStyle().Foreground(colorGreen)
	sMuted = lipgloss.NewStyle().Foreground(colorMuted)
)

// Fatal prints a one-line styled error to stderr. It does not exit the
// process — callers decide their own exit code (cmd/wordvec is the only
// place that calls os.Exit).
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, sErr.Render("error:")+" "+err.Error())
}

// Done prints a one-line styled success summary to stderr.
func Done(msg string) {
	fmt.Fprintln(os.Stderr, sGreen.Render("done:")+" "+msg)
}

// Info prints a one-line muted diagnostic, gated by the caller on its
// configured debug verbosity.
func Info(msg string) {
	fmt.Fprintln(os.Stderr, sMuted.Render("[debug] ")+msg)
}
