package resource

import (
	"context"
	"strings"
)

// Kind selects the directory-chain rule and cache key prefix.
type Kind string

const (
	KindLanguage     Kind = "language"
	KindThemeSetting Kind = "theme_settings"
)

// BaselineVariant is the built-in ultimate fallback locale.
const BaselineVariant = "en_US"

// Context captures the per-request resolution parameters.
type Context struct {
	Requested               string
	Default                 string
	Baseline                string
	DisableBaselineFallback bool
}

// BaselineOrDefault returns the configured baseline or BaselineVariant.
func (c Context) BaselineOrDefault() string {
	if strings.TrimSpace(c.Baseline) == "" {
		return BaselineVariant
	}
	return c.Baseline
}

// AllowsBaseline reports whether baseline attempts should be planned.
func (c Context) AllowsBaseline() bool {
	if c.DisableBaselineFallback {
		return false
	}
	baseline := c.BaselineOrDefault()
	return c.Requested != baseline && c.Default != baseline
}

// Attempt is one candidate (directory, logical name, variant) triple.
type Attempt struct {
	Dir     string
	Name    string
	Variant string
}

// DirectoryChain is an ordered list of absolute directories, most specific first.
type DirectoryChain []string

// Contains reports whether dir is part of the chain.
func (c DirectoryChain) Contains(dir string) bool {
	for _, entry := range c {
		if entry == dir {
			return true
		}
	}
	return false
}

// Clone returns a copy of the chain.
func (c DirectoryChain) Clone() DirectoryChain {
	if c == nil {
		return nil
	}
	out := make(DirectoryChain, len(c))
	copy(out, c)
	return out
}

// ThemeDirs are the resource roots exposed by the theme metadata provider.
type ThemeDirs struct {
	ThemeID         int
	ThemeDir        string
	BaseThemeDir    string
	DefaultThemeDir string
	ThemeURL        string
}

// Loaded reports whether the theme metadata is populated.
func (d ThemeDirs) Loaded() bool {
	return d.ThemeDir != "" || d.DefaultThemeDir != ""
}

// ThemeSource supplies the active theme directories.
type ThemeSource interface {
	ThemeDirs(ctx context.Context) (ThemeDirs, bool)
}

// EssentialLoader loads the minimal theme metadata needed to build a chain.
type EssentialLoader interface {
	LoadEssential(ctx context.Context) error
}

// Scope captures the request identity used to pick variants and themes.
type Scope struct {
	ThemeID  int
	MemberID int
	Language string
}

// Guest reports whether the scope has no member.
func (s Scope) Guest() bool {
	return s.MemberID <= 0
}

// ActorRef identifies the actor making a change to theme options.
type ActorRef struct {
	ID   string
	Type string
	Name string
}

// LoadOption mutates a load request.
type LoadOption func(*LoadRequest)

// LoadRequest captures optional inputs for a load call.
type LoadRequest struct {
	Variant     string
	Fatal       bool
	ForceReload bool
	Scope       *Scope
}

// NewLoadRequest applies options on top of the defaults (fatal loads).
func NewLoadRequest(opts ...LoadOption) LoadRequest {
	req := LoadRequest{Fatal: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	return req
}

// WithVariant forces the requested variant instead of deriving it from scope.
func WithVariant(variant string) LoadOption {
	return func(req *LoadRequest) {
		if req == nil {
			return
		}
		req.Variant = strings.TrimSpace(variant)
	}
}

// WithFatal toggles whether a miss is reported as ResourceNotFound.
func WithFatal(fatal bool) LoadOption {
	return func(req *LoadRequest) {
		if req == nil {
			return
		}
		req.Fatal = fatal
	}
}

// WithForceReload bypasses the loaded-set short circuit.
func WithForceReload(force bool) LoadOption {
	return func(req *LoadRequest) {
		if req == nil {
			return
		}
		req.ForceReload = force
	}
}

// WithScope forces a specific scope instead of deriving it from context.
func WithScope(s Scope) LoadOption {
	return func(req *LoadRequest) {
		if req == nil {
			return
		}
		req.Scope = &s
	}
}

// Loader loads logical resources and returns the variant that was loaded.
type Loader interface {
	Load(ctx context.Context, name string, opts ...LoadOption) (string, error)
}

// TraceableLoader adds provenance to Load.
type TraceableLoader interface {
	Loader
	LoadWithTrace(ctx context.Context, name string, opts ...LoadOption) (string, LoadTrace, error)
}

// ScopeResolver derives a Scope from context.
type ScopeResolver interface {
	Resolve(ctx context.Context) (Scope, error)
}
