// Package tui renders ingestion progress in a terminal.
package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how progress is shown.
type Mode int

const (
	// ModeNonInteractive prints one log line per batch. Used for CI, pipes and scripts.
	ModeNonInteractive Mode = iota
	// ModeInteractive draws a live progress bar.
	ModeInteractive
)

// NonInteractiveEnv forces plain output when set to 1.
const NonInteractiveEnv = "TAXILOAD_NON_INTERACTIVE"

// DetectMode returns ModeNonInteractive if:
//   - TAXILOAD_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set
//   - stdout is not a terminal
//
// and ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}
