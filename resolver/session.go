package resolver

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/chain"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/loader"
	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/planner"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
)

// ErrInvalidName signals an empty or malformed logical name.
var ErrInvalidName = ferrors.ErrInvalidName

// ErrResourceNotFound signals that no attempt resolved for a mandatory load.
var ErrResourceNotFound = ferrors.ErrResourceNotFound

const notFoundFormat = "Unable to load the '%1$s' language file."

// Session holds the merged string tables and load bookkeeping for one
// request or process scope.
type Session struct {
	settings      Settings
	fs            afero.Fs
	themes        resource.ThemeSource
	chains        *chain.Builder
	files         *loader.Loader
	scopeResolver resource.ScopeResolver
	localeHook    LocaleHook
	hooks         []resource.LoadHook
	logger        logger.Logger

	mu         sync.Mutex
	chain      resource.DirectoryChain
	chainBuilt bool
	tables     resource.Tables
	copyright  map[string]string
	loaded     map[string]string
	current    string
	debugFiles []string
	numbers    *numberSeparators
}

// Option customizes a Session.
type Option func(*Session)

// WithSettings replaces the session settings.
func WithSettings(settings Settings) Option {
	return func(s *Session) {
		if s == nil {
			return
		}
		s.settings = settings
	}
}

// WithFs sets the filesystem used by the default chain builder and loader.
func WithFs(fs afero.Fs) Option {
	return func(s *Session) {
		if s == nil || fs == nil {
			return
		}
		s.fs = fs
	}
}

// WithThemeSource sets the theme metadata provider.
func WithThemeSource(source resource.ThemeSource) Option {
	return func(s *Session) {
		if s == nil {
			return
		}
		s.themes = source
	}
}

// WithChainBuilder replaces the directory chain builder.
func WithChainBuilder(builder *chain.Builder) Option {
	return func(s *Session) {
		if s == nil || builder == nil {
			return
		}
		s.chains = builder
	}
}

// WithLoader replaces the resource file loader.
func WithLoader(files *loader.Loader) Option {
	return func(s *Session) {
		if s == nil || files == nil {
			return
		}
		s.files = files
	}
}

// WithScopeResolver overrides scope derivation.
func WithScopeResolver(resolver resource.ScopeResolver) Option {
	return func(s *Session) {
		if s == nil || resolver == nil {
			return
		}
		s.scopeResolver = resolver
	}
}

// WithLocaleHook sets the collaborator notified of lang_locale values.
func WithLocaleHook(hook LocaleHook) Option {
	return func(s *Session) {
		if s == nil {
			return
		}
		s.localeHook = hook
	}
}

// WithLoadHook registers a load hook.
func WithLoadHook(hook resource.LoadHook) Option {
	return func(s *Session) {
		if s == nil || hook == nil {
			return
		}
		s.hooks = append(s.hooks, hook)
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(s *Session) {
		if s == nil || lgr == nil {
			return
		}
		s.logger = lgr
	}
}

// New constructs a Session with the provided options.
func New(options ...Option) *Session {
	s := &Session{
		settings:      DefaultSettings(),
		fs:            afero.NewOsFs(),
		scopeResolver: scope.Resolver{},
		logger:        logger.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.settings = s.settings.normalized()
	if s.chains == nil {
		s.chains = chain.New(
			chain.WithFs(s.fs),
			chain.WithLanguagesDir(s.settings.LanguagesDir),
			chain.WithThemeSource(s.themes),
			chain.WithLogger(s.logger),
		)
	}
	if s.files == nil {
		loaderOpts := []loader.Option{loader.WithFs(s.fs), loader.WithLogger(s.logger)}
		if len(s.settings.Extensions) > 0 {
			loaderOpts = append(loaderOpts, loader.WithExtensions(s.settings.Extensions...))
		}
		s.files = loader.New(loaderOpts...)
	}
	s.reset()
	return s
}

// Reset drops every loaded table and the loaded set, keeping configuration.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.chain = nil
	s.chainBuilt = false
	s.tables = resource.NewTables()
	s.copyright = map[string]string{}
	s.loaded = map[string]string{}
	s.current = ""
	s.debugFiles = nil
	s.numbers = nil
}

// Settings returns the normalized settings.
func (s *Session) Settings() Settings {
	return s.settings
}

// Load merges the logical resource name into the session tables and returns
// the variant that was requested.
func (s *Session) Load(ctx context.Context, name string, opts ...resource.LoadOption) (string, error) {
	variant, _, err := s.load(ctx, name, opts...)
	return variant, err
}

// LoadWithTrace is Load with provenance.
func (s *Session) LoadWithTrace(ctx context.Context, name string, opts ...resource.LoadOption) (string, resource.LoadTrace, error) {
	return s.load(ctx, name, opts...)
}

func (s *Session) load(ctx context.Context, name string, opts ...resource.LoadOption) (string, resource.LoadTrace, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := resource.NewLoadRequest(opts...)
	trimmed := strings.TrimSpace(name)
	names := resource.SplitNames(trimmed)
	trace := resource.LoadTrace{Name: trimmed, Names: names}
	if len(names) == 0 {
		err := ferrors.WrapSentinel(ferrors.ErrInvalidName, "", map[string]any{
			ferrors.MetaResourceName: name,
			ferrors.MetaOperation:    "load",
		})
		s.emit(ctx, resource.LoadEvent{Name: trimmed, Error: err, Trace: trace})
		return "", trace, err
	}

	rc := s.resolutionContext(ctx, req)
	trace.Requested = rc.Requested
	trace.Default = rc.Default
	trace.Baseline = rc.BaselineOrDefault()

	s.mu.Lock()
	if previous, ok := s.loaded[trimmed]; ok && previous == rc.Requested {
		if !req.ForceReload {
			s.mu.Unlock()
			trace.AlreadyLoaded = true
			trace.Found = true
			s.emit(ctx, resource.LoadEvent{Name: trimmed, Variant: rc.Requested, Found: true, Trace: trace})
			return rc.Requested, trace, nil
		}
		trace.ForcedReload = true
	}

	if !s.chainBuilt {
		s.chain = s.chains.Build(ctx, resource.KindLanguage)
		s.chainBuilt = true
	}
	trace.Chain = s.chain.Clone()
	s.current = rc.Requested

	var loadErr error
	for _, logical := range names {
		attempts := planner.Attempts(s.chain, logical, rc)
		modern := s.files.Execute(ctx, attempts)
		s.tables.MergeFrom(modern.Tables)
		for variant, format := range modern.Copyright {
			s.copyright[variant] = format
		}
		trace.Attempts = append(trace.Attempts, modern.Provenance...)
		found := modern.Found

		if s.settings.BackwardCompatibility {
			legacy := s.files.ExecuteLegacy(ctx, attempts)
			s.tables.MergeFrom(legacy.Tables)
			trace.Attempts = append(trace.Attempts, legacy.Provenance...)
			if legacy.Found {
				found = true
				trace.LegacyFound = true
			}
		}

		if !found && req.Fatal {
			loadErr = s.notFound(ctx, logical, rc.Requested)
			break
		}
		if found {
			trace.Found = true
		}
		if s.settings.Debug {
			s.recordDebug(modern.Provenance)
		}
		expandEmails(s.tables.Txt)
	}
	s.loaded[trimmed] = rc.Requested
	locale := s.tables.Txt.String("lang_locale")
	s.mu.Unlock()

	if trace.Found && locale != "" {
		trace.Locale = locale
		if s.localeHook != nil {
			s.localeHook.ApplyLocale(ctx, s.settings.LocaleVariants(locale))
		}
	}

	s.logger.WithContext(ctx).Debug("langtheme.load",
		"name", trimmed,
		"variant", rc.Requested,
		"found", trace.Found,
		"files", len(trace.Files()),
	)
	s.emit(ctx, resource.LoadEvent{
		Name:    trimmed,
		Variant: rc.Requested,
		Found:   trace.Found,
		Error:   loadErr,
		Trace:   trace,
	})
	return rc.Requested, trace, loadErr
}

func (s *Session) resolutionContext(ctx context.Context, req resource.LoadRequest) resource.Context {
	requested := req.Variant
	if requested == "" {
		current := resource.Scope{}
		if req.Scope != nil {
			current = *req.Scope
		} else if resolved, err := s.scopeResolver.Resolve(ctx); err == nil {
			current = resolved
		}
		requested = current.Language
	}
	if requested == "" {
		requested = s.settings.DefaultLanguage
	}
	return resource.Context{
		Requested:               requested,
		Default:                 s.settings.DefaultLanguage,
		Baseline:                s.settings.BaselineLanguage,
		DisableBaselineFallback: s.settings.DisableLanguageFallback,
	}
}

func (s *Session) notFound(ctx context.Context, name, variant string) error {
	format := s.tables.Txt.String("theme_language_error")
	if format == "" {
		format = notFoundFormat
	}
	message := FormatPHP(format, name+"."+variant)
	s.logger.WithContext(ctx).Warn("langtheme.not_found", "name", name, "variant", variant, "message", message)
	return ferrors.WrapSentinel(ferrors.ErrResourceNotFound, message, map[string]any{
		ferrors.MetaResourceName: name,
		ferrors.MetaVariant:      variant,
		ferrors.MetaKind:         string(resource.KindLanguage),
		ferrors.MetaChain:        s.chain.Clone(),
	})
}

func (s *Session) recordDebug(provenance []resource.Provenance) {
	for _, entry := range provenance {
		if !entry.Found {
			continue
		}
		s.debugFiles = append(s.debugFiles, entry.Attempt.Variant+"/"+entry.Attempt.Name+" ("+s.dirLabel(entry.Attempt.Dir)+")")
	}
}

func (s *Session) dirLabel(dir string) string {
	if s.settings.LanguagesDir != "" {
		if root, err := filepath.Abs(s.settings.LanguagesDir); err == nil && root == dir {
			return "Base"
		}
	}
	return filepath.Base(filepath.Dir(dir))
}

func (s *Session) emit(ctx context.Context, event resource.LoadEvent) {
	for _, hook := range s.hooks {
		if hook != nil {
			hook.OnLoad(ctx, event)
		}
	}
}

// expandEmails flattens txt["emails"][key]{subject,body} into key_subject and
// key_body, then empties the emails entry.
func expandEmails(txt resource.Table) {
	emails, ok := resource.NormalizeValue(txt["emails"]).(map[string]any)
	if !ok || len(emails) == 0 {
		return
	}
	for key, value := range emails {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}
		txt[key+"_subject"] = entry["subject"]
		txt[key+"_body"] = entry["body"]
	}
	txt["emails"] = map[string]any{}
}

// AddDirs prepends custom directories to the session chain.
func (s *Session) AddDirs(ctx context.Context, custom ...string) resource.DirectoryChain {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.chainBuilt {
		s.chain = s.chains.Build(ctx, resource.KindLanguage)
		s.chainBuilt = true
	}
	s.chain = s.chains.Extend(s.chain, custom...)
	return s.chain.Clone()
}

// Chain returns the current chain, or nil before the first load.
func (s *Session) Chain() resource.DirectoryChain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain.Clone()
}

// Loaded returns the variant name was last loaded with.
func (s *Session) Loaded(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variant, ok := s.loaded[strings.TrimSpace(name)]
	return variant, ok
}

// Txt returns a general string, or key itself when missing.
func (s *Session) Txt(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value := s.tables.Txt.String(key); value != "" {
		return value
	}
	return key
}

// Tables returns a deep copy of the merged tables.
func (s *Session) Tables() resource.Tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.Clone()
}

// DebugFiles returns the provenance lines recorded in debug mode.
func (s *Session) DebugFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.debugFiles...)
}

var _ resource.TraceableLoader = (*Session)(nil)
