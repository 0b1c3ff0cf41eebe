package theme

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-langtheme/activity"
	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/store"
)

// Toucher advances the global settings-updated watermark.
type Toucher interface {
	Touch(at time.Time)
}

// Loader resolves theme settings and member options from a row store.
type Loader struct {
	rows    store.Reader
	writer  store.Writer
	cache   *cache.Layer
	toucher Toucher
	hooks   activity.Hooks
	logger  logger.Logger
}

// Option customizes a Loader.
type Option func(*Loader)

// WithStore sets the row reader, and the writer when it implements store.Writer.
func WithStore(reader store.Reader) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.rows = reader
		if writer, ok := reader.(store.Writer); ok {
			l.writer = writer
		}
	}
}

// WithWriter sets the row writer.
func WithWriter(writer store.Writer) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.writer = writer
	}
}

// WithCache sets the cache layer.
func WithCache(layer *cache.Layer) Option {
	return func(l *Loader) {
		if l == nil || layer == nil {
			return
		}
		l.cache = layer
	}
}

// WithToucher sets the watermark advanced on theme-wide writes.
func WithToucher(toucher Toucher) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.toucher = toucher
	}
}

// WithActivityHook registers an update hook.
func WithActivityHook(hook activity.Hook) Option {
	return func(l *Loader) {
		if l == nil || hook == nil {
			return
		}
		l.hooks = append(l.hooks, hook)
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(l *Loader) {
		if l == nil || lgr == nil {
			return
		}
		l.logger = lgr
	}
}

// NewLoader constructs a Loader. Without a cache every call hits the store.
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		cache:  cache.Disabled(),
		logger: logger.NopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load resolves theme themeID for memberID. Member ids <= 0 load guest options.
func (l *Loader) Load(ctx context.Context, themeID, memberID int) (Data, error) {
	if l == nil || l.rows == nil {
		return Data{}, ferrors.WrapSentinel(ferrors.ErrStoreRequired, "", map[string]any{
			ferrors.MetaStore:     "theme_rows",
			ferrors.MetaOperation: "load_theme",
		})
	}
	if themeID <= 0 {
		themeID = store.DefaultTheme
	}
	member := memberID
	if member <= 0 {
		member = store.GuestMember
	}

	memberKey := cache.MemberKey(resource.KindThemeSetting, themeID, member)
	themeKey := cache.ThemeKey(resource.KindThemeSetting, themeID)
	aggressive := l.cache.Level() >= 2

	var data snapshot
	if aggressive {
		if cached, ok := l.cache.Lookup(ctx, memberKey, cache.TierShort); ok {
			if snap, ok := cached.(snapshot); ok {
				return l.build(themeID, member, snap.clone()), nil
			}
		}
	}
	partialHit := false
	if cached, ok := l.cache.Lookup(ctx, themeKey, cache.TierLong); ok {
		if snap, ok := cached.(snapshot); ok {
			data = snap.clone()
			data.bucket(member)
			partialHit = true
		}
	}
	if data == nil {
		data = newSnapshot(member)
	}

	members := []int{member}
	if len(data[store.GlobalMember]) == 0 {
		members = uniqueInts(store.GuestMember, store.GlobalMember, member)
	}
	themes := []int{themeID}
	if themeID != store.DefaultTheme {
		themes = []int{store.DefaultTheme, themeID}
	}
	rows, err := l.rows.Rows(ctx, themes, members)
	if err != nil {
		return Data{}, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "theme rows could not be read", map[string]any{
			ferrors.MetaThemeID:   themeID,
			ferrors.MetaMemberID:  member,
			ferrors.MetaOperation: "load_theme",
		})
	}
	data.apply(rows)
	data.fillGuestDefaults(member)

	switch {
	case aggressive:
		l.cache.Store(ctx, memberKey, cache.TierShort, data.clone())
	case !partialHit:
		copied := data.clone()
		l.cache.Store(ctx, themeKey, cache.TierLong, snapshot{
			store.GuestMember:  copied[store.GuestMember],
			store.GlobalMember: copied[store.GlobalMember],
		})
	}
	l.logger.WithContext(ctx).Debug("langtheme.theme.loaded", "theme_id", themeID, "member_id", member, "rows", len(rows))
	return l.build(themeID, member, data), nil
}

func (l *Loader) build(themeID, member int, data snapshot) Data {
	settings := data.bucket(store.GlobalMember)
	options := data.bucket(member)
	settings["theme_id"] = themeID
	settings["actual_theme_url"] = settings["theme_url"]
	settings["actual_images_url"] = settings["images_url"]
	settings["actual_theme_dir"] = settings["theme_dir"]

	themeDir, _ := settings["theme_dir"].(string)
	defaultDir, _ := settings["default_theme_dir"].(string)
	templateDirs := []string{themeDir}
	if base, _ := settings["base_theme_dir"].(string); base != "" {
		templateDirs = append(templateDirs, base)
	}
	if themeDir != defaultDir {
		templateDirs = append(templateDirs, defaultDir)
	}
	settings["template_dirs"] = templateDirs
	return Data{ThemeID: themeID, MemberID: member, Settings: settings, Options: options}
}

// SetOption stores a theme variable and invalidates the affected cache entries.
func (l *Loader) SetOption(ctx context.Context, themeID, memberID int, variable, value string, actor resource.ActorRef) error {
	variable = strings.TrimSpace(variable)
	if err := l.checkWrite(themeID, memberID, variable, "set"); err != nil {
		return err
	}
	row := store.Row{ThemeID: themeID, MemberID: memberID, Variable: variable, Value: value}
	if err := l.writer.Set(ctx, row, actor); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "theme option set failed", writeMeta(themeID, memberID, variable, "set"))
	}
	l.invalidate(ctx, themeID, memberID)
	stored := value
	l.hooks.OnUpdate(ctx, activity.UpdateEvent{
		ThemeID:  themeID,
		MemberID: memberID,
		Variable: variable,
		Actor:    actor,
		Action:   activity.ActionSet,
		Value:    &stored,
	})
	return nil
}

// UnsetOption removes a theme variable and invalidates the affected cache entries.
func (l *Loader) UnsetOption(ctx context.Context, themeID, memberID int, variable string, actor resource.ActorRef) error {
	variable = strings.TrimSpace(variable)
	if err := l.checkWrite(themeID, memberID, variable, "unset"); err != nil {
		return err
	}
	if err := l.writer.Unset(ctx, themeID, memberID, variable, actor); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "theme option unset failed", writeMeta(themeID, memberID, variable, "unset"))
	}
	l.invalidate(ctx, themeID, memberID)
	l.hooks.OnUpdate(ctx, activity.UpdateEvent{
		ThemeID:  themeID,
		MemberID: memberID,
		Variable: variable,
		Actor:    actor,
		Action:   activity.ActionUnset,
	})
	return nil
}

func (l *Loader) checkWrite(themeID, memberID int, variable, operation string) error {
	if l == nil || l.writer == nil {
		return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "", map[string]any{
			ferrors.MetaStore:     "theme_rows",
			ferrors.MetaOperation: operation,
		})
	}
	if variable == "" {
		return ferrors.WrapSentinel(ferrors.ErrPathRequired, "theme variable required", writeMeta(themeID, memberID, variable, operation))
	}
	if memberID != store.GlobalMember && IsReserved(variable) {
		return ferrors.WrapSentinel(ferrors.ErrReservedVariable, "", writeMeta(themeID, memberID, variable, operation))
	}
	return nil
}

func (l *Loader) invalidate(ctx context.Context, themeID, memberID int) {
	if memberID > 0 {
		l.cache.Delete(ctx, cache.MemberKey(resource.KindThemeSetting, themeID, memberID))
		return
	}
	l.cache.Delete(ctx, cache.ThemeKey(resource.KindThemeSetting, themeID))
	if l.toucher != nil {
		l.toucher.Touch(l.cache.Now())
	}
}

func writeMeta(themeID, memberID int, variable, operation string) map[string]any {
	return map[string]any{
		ferrors.MetaThemeID:   themeID,
		ferrors.MetaMemberID:  memberID,
		ferrors.MetaVariable:  variable,
		ferrors.MetaOperation: operation,
	}
}

func uniqueInts(values ...int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
