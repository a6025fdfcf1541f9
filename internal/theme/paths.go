package theme

import (
	"os"
	"path/filepath"
)

// SearchPaths returns theme search directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".sitegen", "themes"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "sitegen", "themes"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "sitegen", "themes"))
	return paths
}
