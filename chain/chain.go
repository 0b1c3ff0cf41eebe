package chain

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resource"
)

// LanguagesSubdir is the per-theme directory holding language packs.
const LanguagesSubdir = "languages"

// Builder computes ordered, de-duplicated directory chains.
type Builder struct {
	fs           afero.Fs
	languagesDir string
	themes       resource.ThemeSource
	logger       logger.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithFs sets the filesystem used for existence checks.
func WithFs(fs afero.Fs) Option {
	return func(b *Builder) {
		if b == nil || fs == nil {
			return
		}
		b.fs = fs
	}
}

// WithLanguagesDir sets the global languages root.
func WithLanguagesDir(dir string) Option {
	return func(b *Builder) {
		if b == nil {
			return
		}
		b.languagesDir = strings.TrimSpace(dir)
	}
}

// WithThemeSource sets the theme metadata provider.
func WithThemeSource(source resource.ThemeSource) Option {
	return func(b *Builder) {
		if b == nil {
			return
		}
		b.themes = source
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(b *Builder) {
		if b == nil || lgr == nil {
			return
		}
		b.logger = lgr
	}
}

// New constructs a Builder backed by the OS filesystem unless overridden.
func New(options ...Option) *Builder {
	b := &Builder{
		fs:     afero.NewOsFs(),
		logger: logger.NopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Fs returns the filesystem the builder probes.
func (b *Builder) Fs() afero.Fs {
	return b.fs
}

// Build returns the chain for kind. Custom dirs that exist are placed ahead
// of the standard roots. Build never fails; unresolvable roots are skipped.
func (b *Builder) Build(ctx context.Context, kind resource.Kind, custom ...string) resource.DirectoryChain {
	candidates := b.canonicalExisting(custom)
	dirs := b.themeDirs(ctx, len(custom) == 0)
	candidates = append(candidates, b.canonicalExisting(standardRoots(kind, b.languagesDir, dirs))...)
	return dedupe(candidates)
}

// Extend prepends custom dirs to an existing chain.
func (b *Builder) Extend(chain resource.DirectoryChain, custom ...string) resource.DirectoryChain {
	out := b.canonicalExisting(custom)
	out = append(out, chain...)
	return dedupe(out)
}

func (b *Builder) themeDirs(ctx context.Context, allowEssential bool) resource.ThemeDirs {
	if b.themes == nil {
		return resource.ThemeDirs{}
	}
	dirs, ok := b.themes.ThemeDirs(ctx)
	if ok && dirs.Loaded() {
		return dirs
	}
	if !allowEssential {
		return dirs
	}
	essential, isLoader := b.themes.(resource.EssentialLoader)
	if !isLoader {
		return dirs
	}
	if err := essential.LoadEssential(ctx); err != nil {
		b.logger.Warn("langtheme.chain.essential_failed", "error", err)
		return dirs
	}
	dirs, _ = b.themes.ThemeDirs(ctx)
	return dirs
}

func standardRoots(kind resource.Kind, languagesDir string, dirs resource.ThemeDirs) []string {
	switch kind {
	case resource.KindThemeSetting:
		roots := []string{dirs.ThemeDir, dirs.BaseThemeDir}
		if dirs.DefaultThemeDir != dirs.ThemeDir {
			roots = append(roots, dirs.DefaultThemeDir)
		}
		return roots
	default:
		return []string{
			languagesDir,
			languagesOf(dirs.ThemeDir),
			languagesOf(dirs.BaseThemeDir),
			languagesOf(dirs.DefaultThemeDir),
		}
	}
}

func languagesOf(themeDir string) string {
	if strings.TrimSpace(themeDir) == "" {
		return ""
	}
	return filepath.Join(themeDir, LanguagesSubdir)
}

func (b *Builder) canonicalExisting(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		canonical, ok := b.canonical(path)
		if !ok {
			continue
		}
		exists, err := afero.DirExists(b.fs, canonical)
		if err != nil || !exists {
			continue
		}
		out = append(out, canonical)
	}
	return out
}

func (b *Builder) canonical(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if _, isOS := b.fs.(*afero.OsFs); isOS {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", false
		}
		abs = resolved
	}
	return abs, true
}

func dedupe(paths []string) resource.DirectoryChain {
	seen := make(map[string]struct{}, len(paths))
	out := make(resource.DirectoryChain, 0, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}

// Locate returns the first chain entry holding one of the candidate file
// names, probing names in order within each directory.
func Locate(fs afero.Fs, chain resource.DirectoryChain, names ...string) (string, bool) {
	for _, dir := range chain {
		for _, name := range names {
			path := filepath.Join(dir, name)
			exists, err := afero.Exists(fs, path)
			if err == nil && exists {
				return path, true
			}
		}
	}
	return "", false
}
