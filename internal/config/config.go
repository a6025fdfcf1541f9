// Package config loads and persists the site configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/resumedj/sitegen/internal/site"
)

// Deploy describes where the built site is published.
type Deploy struct {
	// Dest is a local directory target (file-copy deploy).
	Dest string `mapstructure:"dest"`

	// Host enables SSH deploy when set; Dir is the remote site root.
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	User    string `mapstructure:"user"`
	KeyPath string `mapstructure:"key_path"`
	Dir     string `mapstructure:"dir"`
}

// Config is the full site configuration (site.yaml).
type Config struct {
	Title  string      `mapstructure:"title"`
	Theme  string      `mapstructure:"theme"`
	Output string      `mapstructure:"output"`
	Pages  []site.Page `mapstructure:"pages"`
	Deploy Deploy      `mapstructure:"deploy"`

	// HistoryPath is the build-history database location.
	HistoryPath string `mapstructure:"history_path"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Theme) == "" {
		return fmt.Errorf("theme is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output dir is required")
	}
	for i := range c.Pages {
		if err := c.Pages[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// OutputDir resolves the output dir relative to the project dir.
func (c *Config) OutputDir(projectDir string) string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(projectDir, c.Output)
}

// HistoryDBPath resolves the history database path, defaulting to
// .sitegen/history.db under the project dir.
func (c *Config) HistoryDBPath(projectDir string) string {
	if c.HistoryPath != "" {
		if filepath.IsAbs(c.HistoryPath) {
			return c.HistoryPath
		}
		return filepath.Join(projectDir, c.HistoryPath)
	}
	return filepath.Join(projectDir, ".sitegen", "history.db")
}
