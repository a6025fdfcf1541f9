package cli

import (
	"os"

	"golang.org/x/term"
)

// IsNonInteractive reports whether prompts should be skipped and defaults used.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("SITEGEN_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

// IsInteractive reports whether the session can prompt for user input.
func IsInteractive() bool {
	return !IsNonInteractive()
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
