// Package detector inspects the process environment to pick how output is rendered.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is the rendering mode for step output.
type OutputMode int

const (
	// ModeAuto picks a mode from the environment.
	ModeAuto OutputMode = iota
	// ModeLinear prints step boundaries and output as plain lines.
	ModeLinear
	// ModeGitHub prints like ModeLinear and folds every step into a log group.
	ModeGitHub
)

// String returns the flag value selecting the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeGitHub:
		return "github"
	default:
		return "auto"
	}
}

// Getenv looks up an environment variable.
type Getenv func(string) string

// Detect returns ModeGitHub inside GitHub Actions and ModeLinear everywhere else.
func Detect(getenv Getenv) OutputMode {
	if getenv("GITHUB_ACTIONS") == "true" {
		return ModeGitHub
	}
	return ModeLinear
}

// ResolveMode applies the --output-mode flag to the detected mode.
// Unknown values fall back to the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "linear", "ci":
		return ModeLinear
	case "github":
		return ModeGitHub
	default:
		return autoDetected
	}
}

// IsCI reports whether CI is set to a truthy value.
func IsCI(getenv Getenv) bool {
	ci := getenv("CI")
	return ci == "true" || ci == "1"
}

// IsInteractive reports whether stdout is a terminal outside of CI.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && !IsCI(os.Getenv)
}
