package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resource"
)

// Backend is a shared key/value store with per-key atomic get and put.
type Backend interface {
	Get(ctx context.Context, key string, ttl time.Duration) (any, bool)
	Put(ctx context.Context, key string, value any, ttl time.Duration)
}

// Deleter is implemented by backends that can drop a key.
type Deleter interface {
	Delete(ctx context.Context, key string)
}

// NoopBackend misses on every lookup.
type NoopBackend struct{}

// Get implements Backend.
func (NoopBackend) Get(context.Context, string, time.Duration) (any, bool) {
	return nil, false
}

// Put implements Backend.
func (NoopBackend) Put(context.Context, string, any, time.Duration) {}

// Key identifies a cached table.
type Key struct {
	Kind         resource.Kind
	Name         string
	ThemeID      int
	MemberID     int
	MemberScoped bool
}

// ThemeKey is the key for a theme-global table.
func ThemeKey(kind resource.Kind, themeID int) Key {
	return Key{Kind: kind, ThemeID: themeID}
}

// MemberKey is the key for a member-scoped table.
func MemberKey(kind resource.Kind, themeID, memberID int) Key {
	return Key{Kind: kind, ThemeID: themeID, MemberID: memberID, MemberScoped: true}
}

// NamedKey is the key for a singleton such as the known-languages list.
func NamedKey(name string) Key {
	return Key{Name: name}
}

// String renders the backend key, e.g. "theme_settings-3:12".
func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	if k.MemberScoped {
		return fmt.Sprintf("%s-%d:%d", k.Kind, k.ThemeID, k.MemberID)
	}
	return fmt.Sprintf("%s-%d", k.Kind, k.ThemeID)
}

// Tier selects a TTL.
type Tier int

const (
	TierLong Tier = iota
	TierShort
	TierCatalog
)

// Config holds the cache level and TTL tiers.
type Config struct {
	Level      int
	ShortTTL   time.Duration
	LongTTL    time.Duration
	CatalogTTL time.Duration
}

// DefaultConfig enables level 1 caching with the stock TTLs.
func DefaultConfig() Config {
	return Config{
		Level:      1,
		ShortTTL:   60 * time.Second,
		LongTTL:    90 * time.Second,
		CatalogTTL: time.Hour,
	}
}

// Watermark reports the last global settings update.
type Watermark interface {
	SettingsUpdated(ctx context.Context) time.Time
}

// WatermarkFunc adapts a function to Watermark.
type WatermarkFunc func(context.Context) time.Time

// SettingsUpdated implements Watermark.
func (fn WatermarkFunc) SettingsUpdated(ctx context.Context) time.Time {
	if fn == nil {
		return time.Time{}
	}
	return fn(ctx)
}

// MemoryWatermark keeps the settings-updated timestamp in memory.
type MemoryWatermark struct {
	mu      sync.RWMutex
	updated time.Time
}

// NewMemoryWatermark starts at the given timestamp.
func NewMemoryWatermark(updated time.Time) *MemoryWatermark {
	return &MemoryWatermark{updated: updated}
}

// SettingsUpdated implements Watermark.
func (w *MemoryWatermark) SettingsUpdated(context.Context) time.Time {
	if w == nil {
		return time.Time{}
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.updated
}

// Touch moves the watermark forward; older timestamps are ignored.
func (w *MemoryWatermark) Touch(at time.Time) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if at.After(w.updated) {
		w.updated = at
	}
}

// Layer applies the watermark validity rule on top of a Backend.
type Layer struct {
	backend   Backend
	watermark Watermark
	config    Config
	now       func() time.Time
	logger    logger.Logger
}

// Option customizes a Layer.
type Option func(*Layer)

// WithBackend sets the backend. A nil backend disables caching.
func WithBackend(backend Backend) Option {
	return func(l *Layer) {
		if l == nil {
			return
		}
		l.backend = backend
	}
}

// WithWatermark sets the settings-updated source.
func WithWatermark(watermark Watermark) Option {
	return func(l *Layer) {
		if l == nil || watermark == nil {
			return
		}
		l.watermark = watermark
	}
}

// WithConfig replaces the level and TTL tiers. Zero TTLs keep the defaults.
func WithConfig(cfg Config) Option {
	return func(l *Layer) {
		if l == nil {
			return
		}
		defaults := DefaultConfig()
		if cfg.ShortTTL <= 0 {
			cfg.ShortTTL = defaults.ShortTTL
		}
		if cfg.LongTTL <= 0 {
			cfg.LongTTL = defaults.LongTTL
		}
		if cfg.CatalogTTL <= 0 {
			cfg.CatalogTTL = defaults.CatalogTTL
		}
		l.config = cfg
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Layer) {
		if l == nil || now == nil {
			return
		}
		l.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(l *Layer) {
		if l == nil || lgr == nil {
			return
		}
		l.logger = lgr
	}
}

// New constructs a Layer. Without a backend every lookup misses.
func New(options ...Option) *Layer {
	l := &Layer{
		backend:   NoopBackend{},
		watermark: WatermarkFunc(func(context.Context) time.Time { return time.Time{} }),
		config:    DefaultConfig(),
		now:       time.Now,
		logger:    logger.NopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Disabled returns a layer that always calls through to the loader.
func Disabled() *Layer {
	return New(WithBackend(nil))
}

// Enabled reports whether lookups can hit.
func (l *Layer) Enabled() bool {
	return l != nil && l.backend != nil && l.config.Level > 0
}

// Level returns the configured cache level.
func (l *Layer) Level() int {
	if l == nil {
		return 0
	}
	return l.config.Level
}

// TTL returns the duration for tier.
func (l *Layer) TTL(tier Tier) time.Duration {
	cfg := DefaultConfig()
	if l != nil {
		cfg = l.config
	}
	switch tier {
	case TierShort:
		return cfg.ShortTTL
	case TierCatalog:
		return cfg.CatalogTTL
	default:
		return cfg.LongTTL
	}
}

// Now returns the layer clock.
func (l *Layer) Now() time.Time {
	if l == nil || l.now == nil {
		return time.Now()
	}
	return l.now()
}

// Valid reports whether cached data may be served: now - ttl > settingsUpdated.
func (l *Layer) Valid(ctx context.Context, ttl time.Duration) bool {
	if l == nil {
		return false
	}
	return l.Now().Add(-ttl).After(l.watermark.SettingsUpdated(ctx))
}

// Lookup returns the cached value for key when the layer is enabled and the
// watermark rule allows serving it. Named keys only expire with their TTL.
func (l *Layer) Lookup(ctx context.Context, key Key, tier Tier) (any, bool) {
	if !l.Enabled() {
		return nil, false
	}
	ttl := l.TTL(tier)
	value, ok := l.backend.Get(ctx, key.String(), ttl)
	if !ok || value == nil {
		return nil, false
	}
	if key.Name == "" && !l.Valid(ctx, ttl) {
		l.logger.WithContext(ctx).Debug("langtheme.cache.stale", "key", key.String())
		return nil, false
	}
	return value, true
}

// Store writes value under key with the tier TTL.
func (l *Layer) Store(ctx context.Context, key Key, tier Tier, value any) {
	if !l.Enabled() {
		return
	}
	l.backend.Put(ctx, key.String(), value, l.TTL(tier))
}

// Delete drops key when the backend supports it.
func (l *Layer) Delete(ctx context.Context, key Key) {
	if !l.Enabled() {
		return
	}
	if deleter, ok := l.backend.(Deleter); ok {
		deleter.Delete(ctx, key.String())
	}
}

// GetOrLoad serves key from the layer or calls load and stores the result.
// Loader errors are returned and nothing is stored.
func GetOrLoad[T any](ctx context.Context, l *Layer, key Key, tier Tier, load func(context.Context) (T, error)) (T, bool, error) {
	if cached, ok := l.Lookup(ctx, key, tier); ok {
		if typed, ok := cached.(T); ok {
			return typed, true, nil
		}
	}
	value, err := load(ctx)
	if err != nil {
		return value, false, err
	}
	l.Store(ctx, key, tier, value)
	return value, false, nil
}

var _ Backend = NoopBackend{}
var _ Watermark = (*MemoryWatermark)(nil)
