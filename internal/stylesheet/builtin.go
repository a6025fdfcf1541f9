package stylesheet

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltinSheets returns the shared stylesheet definitions bundled with
// sitegen.
func LoadBuiltinSheets() ([]*Sheet, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin sheets: %w", err)
	}

	sheets := make([]*Sheet, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := "builtin/" + entry.Name()
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read builtin sheet %s: %w", entry.Name(), err)
		}
		sheet, err := parseSheet(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin sheet %s: %w", entry.Name(), err)
		}
		sheet.Source = "builtin"
		sheets = append(sheets, sheet)
	}

	sort.Slice(sheets, func(i, j int) bool {
		return sheets[i].Name < sheets[j].Name
	})

	return sheets, nil
}

// LoadSheet reads a single sheet definition from a YAML file.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", path, err)
	}
	sheet, err := parseSheet(data)
	if err != nil {
		return nil, fmt.Errorf("parse sheet %s: %w", path, err)
	}
	sheet.Source = path
	return sheet, nil
}

// LoadSheets loads sheet definitions from the project dir with builtin
// fallback; a project sheet shadows a builtin of the same name.
func LoadSheets(projectDir string) ([]*Sheet, error) {
	seen := make(map[string]*Sheet)
	order := make([]string, 0)

	if projectDir != "" {
		dir := filepath.Join(projectDir, ".sitegen", "sheets")
		entries, err := os.ReadDir(dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read sheet dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
				continue
			}
			sheet, err := LoadSheet(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			if _, exists := seen[sheet.Name]; exists {
				continue
			}
			seen[sheet.Name] = sheet
			order = append(order, sheet.Name)
		}
	}

	builtins, err := LoadBuiltinSheets()
	if err != nil {
		return nil, err
	}
	for _, sheet := range builtins {
		if _, exists := seen[sheet.Name]; exists {
			continue
		}
		seen[sheet.Name] = sheet
		order = append(order, sheet.Name)
	}

	sort.Strings(order)

	resolved := make([]*Sheet, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}

	return resolved, nil
}

func parseSheet(data []byte) (*Sheet, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sheet.Name) == "" {
		return nil, fmt.Errorf("sheet name is required")
	}
	if len(sheet.Rules) == 0 {
		return nil, fmt.Errorf("sheet %q defines no rules", sheet.Name)
	}
	return &sheet, nil
}
