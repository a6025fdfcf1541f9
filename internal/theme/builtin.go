package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltinThemes returns the themes bundled with sitegen.
func LoadBuiltinThemes() ([]*Theme, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin themes: %w", err)
	}

	themes := make([]*Theme, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := "builtin/" + entry.Name()
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read builtin theme %s: %w", entry.Name(), err)
		}
		t, err := parseTheme(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin theme %s: %w", entry.Name(), err)
		}
		t.Source = "builtin"
		themes = append(themes, t)
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].Name < themes[j].Name
	})

	return themes, nil
}
