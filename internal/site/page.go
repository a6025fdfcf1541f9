// Package site renders themed pages and assembles the deployable site tree.
package site

import (
	"fmt"
	"strings"
)

// Page describes one HTML page of the site and the shared stylesheets it
// depends on. Pages never carry token values of their own; every color comes
// from the compiled stylesheets.
type Page struct {
	// Path is the page identifier, without extension (e.g. "index", "faq").
	Path string `yaml:"path" mapstructure:"path"`

	// Title is the page heading and <title> suffix.
	Title string `yaml:"title" mapstructure:"title"`

	// Template names the page template; empty means "default".
	Template string `yaml:"template,omitempty" mapstructure:"template"`

	// Stylesheets lists shared sheet names in load order. The compiled
	// token sheet is always linked first and is not listed here.
	Stylesheets []string `yaml:"stylesheets,omitempty" mapstructure:"stylesheets"`
}

// FileName returns the output artifact name for the page.
func (p *Page) FileName() string {
	return p.Path + ".html"
}

// TemplateName returns the template to render, defaulting to "default".
func (p *Page) TemplateName() string {
	if strings.TrimSpace(p.Template) == "" {
		return "default"
	}
	return p.Template
}

// Validate checks the page definition.
func (p *Page) Validate() error {
	if strings.TrimSpace(p.Path) == "" {
		return fmt.Errorf("page path is required")
	}
	if strings.Contains(p.Path, "/") || strings.Contains(p.Path, "..") {
		return fmt.Errorf("page path %q must be a bare name", p.Path)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("page %q: title is required", p.Path)
	}
	return nil
}

// DefaultPages returns the standard ResumeDJ page set.
func DefaultPages() []Page {
	sheets := []string{"base", "navigation", "components"}
	return []Page{
		{Path: "index", Title: "Home", Template: "home", Stylesheets: sheets},
		{Path: "instructions", Title: "Instructions", Stylesheets: sheets},
		{Path: "faq", Title: "FAQ", Stylesheets: sheets},
		{Path: "contact", Title: "Contact", Stylesheets: sheets},
	}
}
