// Package ui decides whether CLI output gets colour and provides the
// lipgloss styles used for log levels.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ciEnv lists variables whose presence marks a CI run. CI logs are
// captured to files, so they get plain output.
var ciEnv = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS", "BUILDKITE"}

// fder is satisfied by *os.File and by wrappers that expose the descriptor.
type fder interface {
	Fd() uintptr
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DetectNoColor reports whether NO_COLOR is set, to any value.
func DetectNoColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// DetectCI reports whether a known CI variable is set.
func DetectCI() bool {
	for _, v := range ciEnv {
		if _, set := os.LookupEnv(v); set {
			return true
		}
	}
	return false
}

// ColorEnabled reports whether w should receive coloured output.
func ColorEnabled(w io.Writer, noColorFlag bool) bool {
	if noColorFlag || DetectNoColor() || DetectCI() {
		return false
	}
	return IsTTY(w)
}

// StylesFor returns DefaultStyles or NoColorStyles depending on ColorEnabled.
func StylesFor(w io.Writer, noColorFlag bool) Styles {
	if ColorEnabled(w, noColorFlag) {
		return DefaultStyles()
	}
	return NoColorStyles()
}
