// Package deploy publishes a built site tree to its hosting location.
package deploy

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Target publishes a built site tree.
type Target interface {
	// Deploy copies the contents of sourceDir to the target. The previous
	// deployment is replaced as a whole, never merged.
	Deploy(ctx context.Context, sourceDir string) error

	// Description identifies the target for logs and history entries.
	Description() string
}

// CopyTarget deploys by copying the built tree to a local directory, for
// hosts where the web root is on the same machine.
type CopyTarget struct {
	Dest   string
	Logger zerolog.Logger
}

// NewCopyTarget creates a CopyTarget for the given destination directory.
func NewCopyTarget(dest string, logger zerolog.Logger) *CopyTarget {
	return &CopyTarget{Dest: dest, Logger: logger}
}

// Description implements Target.
func (t *CopyTarget) Description() string {
	return t.Dest
}

// Deploy copies sourceDir into a staging directory next to Dest, then swaps
// it into place. Readers never observe a half-copied tree.
func (t *CopyTarget) Deploy(ctx context.Context, sourceDir string) error {
	if t.Dest == "" {
		return fmt.Errorf("deploy destination is required")
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("stat source dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", sourceDir)
	}

	parent := filepath.Dir(t.Dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create destination parent: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".deploy-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)
	if err := os.Chmod(staging, 0755); err != nil {
		return fmt.Errorf("chmod staging dir: %w", err)
	}

	files, bytes, err := copyTree(ctx, sourceDir, staging)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(t.Dest); err != nil {
		return fmt.Errorf("remove previous deployment: %w", err)
	}
	if err := os.Rename(staging, t.Dest); err != nil {
		return fmt.Errorf("activate deployment: %w", err)
	}

	t.Logger.Info().
		Str("dest", t.Dest).
		Int("files", files).
		Int64("bytes", bytes).
		Msg("site deployed")

	return nil
}

// copyTree copies every regular file under src into dst, preserving the
// directory layout. Returns the file count and total bytes copied.
func copyTree(ctx context.Context, src, dst string) (int, int64, error) {
	files := 0
	var total int64

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		n, err := copyFile(path, target)
		if err != nil {
			return err
		}
		files++
		total += n
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("copy site tree: %w", err)
	}

	return files, total, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, err
	}
	return n, out.Close()
}
