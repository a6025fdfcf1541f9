package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumedj/sitegen/internal/stylesheet"
	"github.com/resumedj/sitegen/internal/theme"
)

// Options configure a Builder.
type Options struct {
	// ProjectDir is the site source root (content, theme and sheet
	// overrides). Empty means builtins only.
	ProjectDir string

	// OutputDir is where the built tree lands. It is replaced wholesale on
	// every successful build, never patched.
	OutputDir string

	// SiteTitle is the site-wide title.
	SiteTitle string

	// Theme is the active theme; the whole build resolves against it.
	Theme *theme.Theme

	// Pages lists the pages to render. Empty means DefaultPages.
	Pages []Page

	Logger zerolog.Logger
}

// Builder compiles stylesheets and renders pages into a deployable tree.
type Builder struct {
	opts  Options
	store *theme.Store
}

// NewBuilder validates the options and prepares the token store.
func NewBuilder(opts Options) (*Builder, error) {
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	if strings.TrimSpace(opts.SiteTitle) == "" {
		opts.SiteTitle = "ResumeDJ"
	}
	if len(opts.Pages) == 0 {
		opts.Pages = DefaultPages()
	}
	for i := range opts.Pages {
		if err := opts.Pages[i].Validate(); err != nil {
			return nil, err
		}
	}

	store, err := theme.NewStore(opts.Theme)
	if err != nil {
		return nil, err
	}

	return &Builder{opts: opts, store: store}, nil
}

// Store exposes the builder's token store.
func (b *Builder) Store() *theme.Store {
	return b.store
}

// Build compiles every sheet, renders every page, and atomically replaces
// the output dir with the new tree. Consumers of the output never see a
// half-written site: the swap is a rename, not an in-place patch.
func (b *Builder) Build(ctx context.Context) (*Manifest, error) {
	started := time.Now()
	logger := b.opts.Logger

	sheets, err := stylesheet.LoadSheets(b.opts.ProjectDir)
	if err != nil {
		return nil, err
	}
	compiled, err := stylesheet.CompileAll(sheets, b.store)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*stylesheet.Compiled, len(compiled))
	for _, sheet := range compiled {
		byName[sheet.Name] = sheet
	}

	templates, err := LoadTemplates(b.opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	parent := filepath.Dir(b.opts.OutputDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, fmt.Errorf("create output parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".sitegen-staging-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)
	if err := os.Chmod(staging, 0755); err != nil {
		return nil, fmt.Errorf("chmod staging dir: %w", err)
	}

	manifest := NewManifest(b.store.ThemeName(), len(b.opts.Pages))

	cssDir := filepath.Join(staging, "css")
	if err := os.MkdirAll(cssDir, 0755); err != nil {
		return nil, fmt.Errorf("create css dir: %w", err)
	}

	tokensCSS := stylesheet.CompileTokens(b.store)
	if err := writeArtifact(manifest, staging, filepath.Join("css", stylesheet.TokensFileName), tokensCSS); err != nil {
		return nil, err
	}
	for _, sheet := range compiled {
		if err := writeArtifact(manifest, staging, filepath.Join("css", sheet.Name+".css"), sheet.CSS); err != nil {
			return nil, err
		}
	}

	nav := b.navLinks()
	for _, page := range b.opts.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		refs := []string{stylesheet.TokensFileName}
		for _, name := range page.Stylesheets {
			if _, ok := byName[name]; !ok {
				return nil, fmt.Errorf("page %q references unknown stylesheet %q", page.Path, name)
			}
			refs = append(refs, name+".css")
		}

		content, err := loadContent(b.opts.ProjectDir, page.Path)
		if err != nil {
			return nil, err
		}

		data := PageData{
			SiteTitle:   b.opts.SiteTitle,
			Title:       page.Title,
			Path:        page.Path,
			Stylesheets: refs,
			Nav:         markActive(nav, page.Path),
			Content:     content,
		}

		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, page.TemplateName(), data); err != nil {
			return nil, fmt.Errorf("render page %q: %w", page.Path, err)
		}
		if err := writeArtifact(manifest, staging, page.FileName(), buf.Bytes()); err != nil {
			return nil, err
		}

		logger.Debug().Str("page", page.Path).Str("template", page.TemplateName()).Msg("page rendered")
	}

	manifest.Finalize(time.Since(started))

	if err := os.RemoveAll(b.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("clear output dir: %w", err)
	}
	if err := os.Rename(staging, b.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("swap output dir: %w", err)
	}

	logger.Info().
		Str("theme", manifest.Theme).
		Int("pages", manifest.PageCount).
		Int("files", len(manifest.Files)).
		Int64("bytes", manifest.TotalBytes).
		Str("hash", manifest.ContentHash).
		Msg("site built")

	return manifest, nil
}

func (b *Builder) navLinks() []NavLink {
	links := make([]NavLink, 0, len(b.opts.Pages))
	for _, page := range b.opts.Pages {
		links = append(links, NavLink{Href: page.FileName(), Label: page.Title})
	}
	return links
}

func markActive(nav []NavLink, path string) []NavLink {
	out := make([]NavLink, len(nav))
	copy(out, nav)
	for i := range out {
		out[i].Active = out[i].Href == path+".html"
	}
	return out
}

func writeArtifact(m *Manifest, root, rel string, data []byte) error {
	path := filepath.Join(root, rel)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	m.Add(filepath.ToSlash(rel), data)
	return nil
}
