// Package theme holds the canonical mapping of semantic color names to values.
package theme

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Theme errors.
var (
	ErrNoTokens       = errors.New("theme defines no tokens")
	ErrDuplicateToken = errors.New("duplicate token name")
	ErrInvalidColor   = errors.New("invalid color value")
)

// Token is a named, semantic placeholder for a concrete color value.
type Token struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Theme is a complete assignment of color values to semantic roles.
type Theme struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Tokens      []Token `yaml:"tokens"`
	Source      string  // file path or "builtin"
}

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks that the theme is complete and internally consistent:
// a non-empty name, at least one token, unique token names, and hex colors.
func (t *Theme) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("theme name is required")
	}
	if len(t.Tokens) == 0 {
		return fmt.Errorf("theme %q: %w", t.Name, ErrNoTokens)
	}

	seen := make(map[string]struct{}, len(t.Tokens))
	for _, token := range t.Tokens {
		name := strings.TrimSpace(token.Name)
		if name == "" {
			return fmt.Errorf("theme %q: token with empty name", t.Name)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("theme %q: %w: %q", t.Name, ErrDuplicateToken, name)
		}
		seen[name] = struct{}{}

		if !colorPattern.MatchString(token.Value) {
			return fmt.Errorf("theme %q: %w: token %q has value %q", t.Name, ErrInvalidColor, name, token.Value)
		}
	}

	return nil
}

// Lookup returns the value for a token name, reporting whether it exists.
func (t *Theme) Lookup(name string) (string, bool) {
	for _, token := range t.Tokens {
		if token.Name == name {
			return token.Value, true
		}
	}
	return "", false
}
