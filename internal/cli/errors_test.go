package cli

import (
	"fmt"
	"strings"
	"testing"
)

func TestPreflightErrorFormat(t *testing.T) {
	err := &PreflightError{
		Message:  "theme \"neon\" not found",
		Hint:     "Themes live in .sitegen/themes/ or ship as builtins",
		NextStep: "sitegen themes list",
	}

	out := err.Format()
	for _, want := range []string{"theme \"neon\" not found", "Hint:", "Next: sitegen themes list"} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted error missing %q:\n%s", want, out)
		}
	}
}

func TestPreflightErrorUnwrapsThroughWrap(t *testing.T) {
	inner := &PreflightError{Message: "no deploy destination configured"}
	wrapped := fmt.Errorf("deploy: %w", inner)

	var target *PreflightError
	if !asPreflight(wrapped, &target) {
		t.Fatal("expected wrapped PreflightError to be found")
	}
	if target.Message != inner.Message {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestShortIDAndHash(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("shortID short input = %q", got)
	}
	if got := shortHash(""); got != "-" {
		t.Fatalf("shortHash empty = %q", got)
	}
	if got := shortHash("0123456789abcdef0123"); got != "0123456789ab" {
		t.Fatalf("shortHash = %q", got)
	}
}

func TestWriteTable(t *testing.T) {
	var b strings.Builder
	err := writeTable(&b, []string{"NAME", "ACTIVE"}, [][]string{
		{"earthtone", formatYesNo(true)},
		{"bluesteel", formatYesNo(false)},
	})
	if err != nil {
		t.Fatalf("writeTable: %v", err)
	}

	out := b.String()
	if !strings.Contains(out, "earthtone") || !strings.Contains(out, "yes") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
	if !strings.Contains(out, "bluesteel") || !strings.Contains(out, "no") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}
