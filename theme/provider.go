package theme

import (
	"context"
	"sync"

	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/chain"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
	"github.com/goliatone/go-langtheme/store"
)

// DefaultTemplateSuffixes are appended to a template name when locating it.
var DefaultTemplateSuffixes = []string{".template.html", ".template.tpl"}

// Provider keeps the active theme and supplies resource directories.
type Provider struct {
	loader        *Loader
	scopeResolver resource.ScopeResolver
	guestTheme    int
	fs            afero.Fs
	suffixes      []string

	mu      sync.RWMutex
	current *Data
}

// ProviderOption customizes a Provider.
type ProviderOption func(*Provider)

// WithGuestTheme sets the theme id used when the scope has none.
func WithGuestTheme(themeID int) ProviderOption {
	return func(p *Provider) {
		if p == nil || themeID <= 0 {
			return
		}
		p.guestTheme = themeID
	}
}

// WithScopeResolver overrides how LoadEssential derives the theme and member.
func WithScopeResolver(resolver resource.ScopeResolver) ProviderOption {
	return func(p *Provider) {
		if p == nil || resolver == nil {
			return
		}
		p.scopeResolver = resolver
	}
}

// WithTemplateFs sets the filesystem used to locate templates.
func WithTemplateFs(fs afero.Fs) ProviderOption {
	return func(p *Provider) {
		if p == nil || fs == nil {
			return
		}
		p.fs = fs
	}
}

// WithTemplateSuffixes overrides DefaultTemplateSuffixes.
func WithTemplateSuffixes(suffixes ...string) ProviderOption {
	return func(p *Provider) {
		if p == nil || len(suffixes) == 0 {
			return
		}
		p.suffixes = append([]string(nil), suffixes...)
	}
}

// NewProvider wraps loader.
func NewProvider(loader *Loader, options ...ProviderOption) *Provider {
	p := &Provider{
		loader:        loader,
		scopeResolver: scope.Resolver{},
		guestTheme:    store.DefaultTheme,
		fs:            afero.NewOsFs(),
		suffixes:      DefaultTemplateSuffixes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Load resolves and activates a theme.
func (p *Provider) Load(ctx context.Context, themeID, memberID int) (Data, error) {
	if p == nil || p.loader == nil {
		return Data{}, ferrors.WrapSentinel(ferrors.ErrThemeRequired, "", map[string]any{
			ferrors.MetaOperation: "load_theme",
		})
	}
	if themeID <= 0 {
		themeID = p.guestTheme
	}
	data, err := p.loader.Load(ctx, themeID, memberID)
	if err != nil {
		return Data{}, err
	}
	p.mu.Lock()
	p.current = &data
	p.mu.Unlock()
	return data, nil
}

// Current returns the active theme, if any.
func (p *Provider) Current() (Data, bool) {
	if p == nil {
		return Data{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return Data{}, false
	}
	return *p.current, true
}

// ThemeDirs implements resource.ThemeSource.
func (p *Provider) ThemeDirs(context.Context) (resource.ThemeDirs, bool) {
	data, ok := p.Current()
	if !ok {
		return resource.ThemeDirs{}, false
	}
	return data.Dirs(), true
}

// LoadEssential implements resource.EssentialLoader. It loads the theme for the
// scope in ctx without any further initialization, and is a no-op once a theme
// is active.
func (p *Provider) LoadEssential(ctx context.Context) error {
	if _, ok := p.Current(); ok {
		return nil
	}
	current, err := p.scopeResolver.Resolve(ctx)
	if err != nil {
		return err
	}
	_, err = p.Load(ctx, current.ThemeID, current.MemberID)
	return err
}

// LocateTemplate returns the first template file for name across the
// ThemeSetting chain of the active theme.
func (p *Provider) LocateTemplate(ctx context.Context, name string) (string, bool) {
	builder := chain.New(chain.WithFs(p.fs), chain.WithThemeSource(p))
	dirs := builder.Build(ctx, resource.KindThemeSetting)
	candidates := make([]string, 0, len(p.suffixes))
	for _, suffix := range p.suffixes {
		candidates = append(candidates, name+suffix)
	}
	return chain.Locate(p.fs, dirs, candidates...)
}

var _ resource.ThemeSource = (*Provider)(nil)
var _ resource.EssentialLoader = (*Provider)(nil)
