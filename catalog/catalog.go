package catalog

import (
	"context"
	"html"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/chain"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/loader"
	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resource"
)

// CacheKey is the cache entry for the scanned language list.
const CacheKey = "known_languages"

// IndexName is the resource whose presence marks a directory as a language.
const IndexName = "General"

const nativeNameKey = "native_name"

const baselineNativeName = "English (US)"

// Language describes an installed language pack.
type Language struct {
	ID       string
	Name     string
	Location string
	Dir      string
	Selected bool
}

// Catalog exposes installed languages by id.
type Catalog interface {
	Get(id string) (Language, bool)
	List() []Language
}

// NameFallback returns a display name for a language without native_name.
type NameFallback func(id string) string

// StaticCatalog provides an in-memory catalog.
type StaticCatalog struct {
	langs map[string]Language
}

// NewStatic builds an in-memory catalog from languages. Later entries with
// the same id replace earlier ones.
func NewStatic(langs ...Language) *StaticCatalog {
	out := make(map[string]Language, len(langs))
	for _, lang := range langs {
		id := strings.TrimSpace(lang.ID)
		if id == "" {
			continue
		}
		lang.ID = id
		if strings.TrimSpace(lang.Name) == "" {
			lang.Name = id
		}
		out[id] = lang
	}
	return &StaticCatalog{langs: out}
}

// Get implements Catalog.
func (c *StaticCatalog) Get(id string) (Language, bool) {
	if c == nil || len(c.langs) == 0 {
		return Language{}, false
	}
	lang, ok := c.langs[strings.TrimSpace(id)]
	return lang, ok
}

// List implements Catalog.
func (c *StaticCatalog) List() []Language {
	if c == nil || len(c.langs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(c.langs))
	for id := range c.langs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Language, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.langs[id])
	}
	return out
}

// Select returns a copy of the catalog with id marked as selected.
func (c *StaticCatalog) Select(id string) *StaticCatalog {
	langs := c.List()
	for i := range langs {
		langs[i].Selected = langs[i].ID == id
	}
	return NewStatic(langs...)
}

// Scanner discovers installed languages from the languages root and the
// theme language directories.
type Scanner struct {
	fs           afero.Fs
	files        *loader.Loader
	languagesDir string
	themes       resource.ThemeSource
	cache        *cache.Layer
	fallback     NameFallback
	logger       logger.Logger
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithFs sets the filesystem for directory listing and file reads.
func WithFs(fs afero.Fs) Option {
	return func(s *Scanner) {
		if s == nil || fs == nil {
			return
		}
		s.fs = fs
	}
}

// WithLoader sets the resource loader used to decode index files.
func WithLoader(files *loader.Loader) Option {
	return func(s *Scanner) {
		if s == nil || files == nil {
			return
		}
		s.files = files
	}
}

// WithLanguagesDir sets the global languages root.
func WithLanguagesDir(dir string) Option {
	return func(s *Scanner) {
		if s == nil {
			return
		}
		s.languagesDir = strings.TrimSpace(dir)
	}
}

// WithThemeSource sets the theme metadata provider.
func WithThemeSource(source resource.ThemeSource) Option {
	return func(s *Scanner) {
		if s == nil {
			return
		}
		s.themes = source
	}
}

// WithCache sets the cache layer.
func WithCache(layer *cache.Layer) Option {
	return func(s *Scanner) {
		if s == nil || layer == nil {
			return
		}
		s.cache = layer
	}
}

// WithNameFallback sets the display name source for packs without native_name.
func WithNameFallback(fallback NameFallback) Option {
	return func(s *Scanner) {
		if s == nil {
			return
		}
		s.fallback = fallback
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(s *Scanner) {
		if s == nil || lgr == nil {
			return
		}
		s.logger = lgr
	}
}

// NewScanner constructs a Scanner.
func NewScanner(options ...Option) *Scanner {
	s := &Scanner{
		fs:     afero.NewOsFs(),
		cache:  cache.Disabled(),
		logger: logger.NopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.files == nil {
		s.files = loader.New(loader.WithFs(s.fs), loader.WithLogger(s.logger))
	}
	return s
}

// Languages returns the installed languages. With useCache false the
// directories are always rescanned and the cache refreshed.
func (s *Scanner) Languages(ctx context.Context, useCache bool) (*StaticCatalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	key := cache.NamedKey(CacheKey)
	if !useCache {
		langs, err := s.scan(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Store(ctx, key, cache.TierCatalog, langs)
		return NewStatic(langs...), nil
	}
	langs, hit, err := cache.GetOrLoad(ctx, s.cache, key, cache.TierCatalog, s.scan)
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).Debug("langtheme.catalog.languages", "count", len(langs), "cache_hit", hit)
	return NewStatic(langs...), nil
}

// Dirs returns the language directories scanned, in order.
func (s *Scanner) Dirs(ctx context.Context) []string {
	var dirs resource.ThemeDirs
	if s.themes != nil {
		var ok bool
		dirs, ok = s.themes.ThemeDirs(ctx)
		if !ok || dirs.DefaultThemeDir == "" {
			if essential, isLoader := s.themes.(resource.EssentialLoader); isLoader {
				if err := essential.LoadEssential(ctx); err != nil {
					s.logger.WithContext(ctx).Warn("langtheme.catalog.essential_failed", "error", err)
				}
				dirs, _ = s.themes.ThemeDirs(ctx)
			}
		}
	}
	candidates := []string{s.languagesDir, languagesOf(dirs.DefaultThemeDir)}
	if dirs.ThemeDir != "" && dirs.ThemeDir != dirs.DefaultThemeDir {
		candidates = append(candidates, languagesOf(dirs.ThemeDir))
	}
	candidates = append(candidates, languagesOf(dirs.BaseThemeDir))

	seen := map[string]struct{}{}
	out := make([]string, 0, len(candidates))
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}

func (s *Scanner) scan(ctx context.Context) ([]Language, error) {
	found := map[string]Language{}
	order := []string{}
	for _, dir := range s.Dirs(ctx) {
		exists, err := afero.DirExists(s.fs, dir)
		if err != nil || !exists {
			continue
		}
		entries, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			return nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "language directory listing failed", map[string]any{
				ferrors.MetaDir: dir,
			})
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			lang, ok := s.inspect(ctx, dir, entry.Name())
			if !ok {
				continue
			}
			if _, seen := found[lang.ID]; !seen {
				order = append(order, lang.ID)
			}
			found[lang.ID] = lang
		}
	}
	out := make([]Language, 0, len(order))
	for _, id := range order {
		out = append(out, found[id])
	}
	return out, nil
}

func (s *Scanner) inspect(ctx context.Context, dir, id string) (Language, bool) {
	path, ok := chain.Locate(s.fs, resource.DirectoryChain{filepath.Join(dir, id)}, indexFiles(s.files.Extensions())...)
	if !ok {
		return Language{}, false
	}
	lang := Language{ID: id, Dir: dir, Location: path}
	doc, err := s.files.ReadDocument(path)
	if err != nil {
		s.logger.WithContext(ctx).Warn("langtheme.catalog.index_unreadable", "path", path, "error", err)
	} else if name := doc.Tables.Txt.String(nativeNameKey); name != "" {
		if id == resource.BaselineVariant || name != baselineNativeName {
			lang.Name = html.UnescapeString(name)
		}
	}
	if lang.Name == "" && s.fallback != nil {
		lang.Name = s.fallback(id)
	}
	if lang.Name == "" {
		lang.Name = id
	}
	return lang, true
}

func indexFiles(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, IndexName+ext)
	}
	return out
}

func languagesOf(themeDir string) string {
	if strings.TrimSpace(themeDir) == "" {
		return ""
	}
	return filepath.Join(themeDir, chain.LanguagesSubdir)
}
