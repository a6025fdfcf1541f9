package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrThemeNotFound is returned when no theme with the requested name exists.
var ErrThemeNotFound = errors.New("theme not found")

// LoadTheme reads a single theme definition from a YAML file.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme %s: %w", path, err)
	}
	t, err := parseTheme(data)
	if err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// LoadThemesFromDir loads all theme files from a directory.
// A missing directory yields no themes and no error.
func LoadThemesFromDir(dir string) ([]*Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme dir %s: %w", dir, err)
	}

	var themes []*Theme
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		t, err := LoadTheme(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].Name < themes[j].Name
	})

	return themes, nil
}

// LoadThemes loads themes from the search paths with first-hit precedence,
// then appends builtins for any name not already taken.
func LoadThemes(projectDir string) ([]*Theme, error) {
	seen := make(map[string]*Theme)
	order := make([]string, 0)

	for _, path := range SearchPaths(projectDir) {
		themes, err := LoadThemesFromDir(path)
		if err != nil {
			return nil, err
		}
		for _, t := range themes {
			if _, exists := seen[t.Name]; exists {
				continue
			}
			seen[t.Name] = t
			order = append(order, t.Name)
		}
	}

	builtins, err := LoadBuiltinThemes()
	if err != nil {
		return nil, err
	}
	for _, t := range builtins {
		if _, exists := seen[t.Name]; exists {
			continue
		}
		seen[t.Name] = t
		order = append(order, t.Name)
	}

	resolved := make([]*Theme, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}

	return resolved, nil
}

// FindTheme resolves a theme by name across search paths and builtins.
func FindTheme(projectDir, name string) (*Theme, error) {
	themes, err := LoadThemes(projectDir)
	if err != nil {
		return nil, err
	}
	for _, t := range themes {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
}

func parseTheme(data []byte) (*Theme, error) {
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
