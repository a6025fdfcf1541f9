package cli

import (
	"errors"
	"fmt"
	"strings"
)

// PreflightError describes a failed precondition with a suggested fix.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

// Format renders the error with its hint and next step for terminal output.
func (e *PreflightError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "  Hint: %s\n", e.Hint)
	}
	if e.NextStep != "" {
		fmt.Fprintf(&b, "  Next: %s", e.NextStep)
	}
	return strings.TrimRight(b.String(), "\n")
}

func asPreflight(err error, target **PreflightError) bool {
	return errors.As(err, target)
}
