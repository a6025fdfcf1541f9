package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed builtin/*.tmpl
var builtinTemplates embed.FS

// NavLink is one entry in the shared navigation bar.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

// PageData is the data every page template renders with.
type PageData struct {
	SiteTitle   string
	Title       string
	Path        string
	Stylesheets []string
	Nav         []NavLink
	Content     template.HTML
}

// LoadTemplates parses the builtin page templates, then overlays any
// project templates from .sitegen/templates so a project file shadows the
// builtin of the same name.
func LoadTemplates(projectDir string) (*template.Template, error) {
	root := template.New("pages")

	entries, err := fs.ReadDir(builtinTemplates, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin templates: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinTemplates.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin template %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("parse builtin template %s: %w", entry.Name(), err)
		}
	}

	if projectDir != "" {
		dir := filepath.Join(projectDir, ".sitegen", "templates")
		overrides, err := os.ReadDir(dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read template dir %s: %w", dir, err)
		}
		for _, entry := range overrides {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
			}
			name := strings.TrimSuffix(entry.Name(), ".tmpl")
			if _, err := root.New(name).Parse(string(data)); err != nil {
				return nil, fmt.Errorf("parse template %s: %w", entry.Name(), err)
			}
		}
	}

	return root, nil
}

// loadContent reads an optional per-page content fragment from
// <projectDir>/content/<path>.html. A missing fragment is not an error.
func loadContent(projectDir, pagePath string) (template.HTML, error) {
	if projectDir == "" {
		return "", nil
	}
	path := filepath.Join(projectDir, "content", pagePath+".html")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read content %s: %w", path, err)
	}
	return template.HTML(data), nil
}
