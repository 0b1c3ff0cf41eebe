package templates

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resolver"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
	"github.com/goliatone/go-langtheme/theme"
	"github.com/goliatone/go-langtheme/urlbuilder"
)

const (
	TemplateContextKey  = "lang_ctx"
	TemplateScopeKey    = "lang_scope"
	TemplateSnapshotKey = "lang_snapshot"
	TemplateThemeKey    = "theme"
)

// Strings is the session surface the helpers render from.
type Strings interface {
	resource.Loader
	Txt(key string) string
	TokenReplace(input string) string
	SentenceList(items []string) string
	NumberFormat(number any, decimals ...int) string
	FormatCopyright(version, year, scriptURL string) string
}

// HelperConfig configures template helpers.
type HelperConfig struct {
	ContextKey             string
	ScopeKey               string
	SnapshotKey            string
	ThemeKey               string
	ScriptURL              string
	CreditsGroup           string
	CreditsRoute           string
	URLs                   urlbuilder.Builder
	EnableStructuredErrors bool
	EnableErrorLogging     bool
	Logger                 logger.Logger
}

// HelperOption configures template helpers.
type HelperOption func(*HelperConfig)

// DefaultHelperConfig returns the default helper configuration.
func DefaultHelperConfig() HelperConfig {
	return HelperConfig{
		ContextKey:   TemplateContextKey,
		ScopeKey:     TemplateScopeKey,
		SnapshotKey:  TemplateSnapshotKey,
		ThemeKey:     TemplateThemeKey,
		CreditsGroup: "forum",
		CreditsRoute: "index",
	}
}

// WithContextKey overrides the template context key name.
func WithContextKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ContextKey = strings.TrimSpace(key)
	}
}

// WithScopeKey overrides the template scope key name.
func WithScopeKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ScopeKey = strings.TrimSpace(key)
	}
}

// WithSnapshotKey overrides the template snapshot key name.
func WithSnapshotKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.SnapshotKey = strings.TrimSpace(key)
	}
}

// WithThemeKey overrides the template key holding theme.Data.
func WithThemeKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ThemeKey = strings.TrimSpace(key)
	}
}

// WithScriptURL sets the script URL used when no URL builder is configured.
func WithScriptURL(url string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ScriptURL = strings.TrimSpace(url)
	}
}

// WithURLBuilder resolves the script URL through a route builder.
func WithURLBuilder(builder urlbuilder.Builder, group, route string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.URLs = builder
		if group = strings.TrimSpace(group); group != "" {
			cfg.CreditsGroup = group
		}
		if route = strings.TrimSpace(route); route != "" {
			cfg.CreditsRoute = route
		}
	}
}

// WithStructuredErrors toggles structured error output for string helpers.
func WithStructuredErrors(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableStructuredErrors = enabled
	}
}

// WithErrorLogging toggles error logging for helper failures.
func WithErrorLogging(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableErrorLogging = enabled
	}
}

// WithLogger injects a logger for helper error logging.
func WithLogger(lgr logger.Logger) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.Logger = lgr
	}
}

// TemplateHelpers returns a helper set suitable for pongo2 globals.
func TemplateHelpers(strs Strings, opts ...HelperOption) map[string]any {
	cfg := DefaultHelperConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.EnableErrorLogging && cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	helpers := &helperSet{
		session: strs,
		cfg:     cfg,
	}
	if traceable, ok := strs.(resource.TraceableLoader); ok {
		helpers.trace = traceable
	}

	funcs := map[string]any{
		"txt":             helpers.txt,
		"token_replace":   helpers.tokenReplace,
		"sentence_list":   helpers.sentenceList,
		"number_format":   helpers.numberFormat,
		"forum_copyright": helpers.forumCopyright,
		"lang_load":       helpers.langLoad,
		"theme_setting":   helpers.themeSetting,
	}
	if helpers.trace != nil {
		funcs["lang_trace"] = helpers.langTrace
	}
	return funcs
}

type helperSet struct {
	session Strings
	trace   resource.TraceableLoader
	cfg     HelperConfig
}

func (h *helperSet) txt(execCtx *pongo2.ExecutionContext, key any, args ...any) string {
	normalized, ok := parseKey(key)
	if !ok {
		return ""
	}
	value := ""
	if snapshot := h.snapshot(execCtx); snapshot != nil {
		value, _ = snapshotString(snapshot, normalized)
	}
	if value == "" && h.session != nil {
		value = h.session.Txt(normalized)
	}
	if value == "" {
		value = normalized
	}
	if len(args) == 0 {
		return value
	}
	unwrapped := make([]any, len(args))
	for i, arg := range args {
		unwrapped[i] = unwrapValue(arg)
	}
	return resolver.FormatPHP(value, unwrapped...)
}

func (h *helperSet) tokenReplace(input any) string {
	text := stringValue(input)
	if h.session == nil {
		return text
	}
	return h.session.TokenReplace(text)
}

func (h *helperSet) sentenceList(items ...any) string {
	flat := flattenStrings(items...)
	if h.session == nil {
		return strings.Join(flat, ", ")
	}
	return h.session.SentenceList(flat)
}

func (h *helperSet) numberFormat(number any, decimals ...any) string {
	value := unwrapValue(number)
	if h.session == nil {
		return fmt.Sprint(value)
	}
	places := make([]int, 0, 1)
	if len(decimals) > 0 {
		if n, ok := intFromValue(decimals[0]); ok {
			places = append(places, n)
		}
	}
	return h.session.NumberFormat(value, places...)
}

func (h *helperSet) forumCopyright(version, year any) any {
	scriptURL := h.cfg.ScriptURL
	if h.cfg.URLs != nil {
		resolved, err := h.cfg.URLs.Resolve(h.cfg.CreditsGroup, h.cfg.CreditsRoute, nil, nil)
		if err != nil {
			return h.errorOrFallback("forum_copyright", ferrors.WrapExternal(err, ferrors.TextCodeAdapterFailed, "script url resolution failed", map[string]any{
				ferrors.MetaOperation: "forum_copyright",
			}), "")
		}
		scriptURL = resolved
	}
	if h.session == nil {
		return resolver.FormatPHP(resolver.DefaultCopyright, stringValue(version), stringValue(year), scriptURL)
	}
	return h.session.FormatCopyright(stringValue(version), stringValue(year), scriptURL)
}

func (h *helperSet) langLoad(execCtx *pongo2.ExecutionContext, name any, variant ...any) any {
	normalized, ok := parseKey(name)
	if !ok {
		return h.errorOrFallback("lang_load", ferrors.WrapSentinel(ferrors.ErrInvalidName, "", map[string]any{
			ferrors.MetaResourceName: unwrapValue(name),
		}), "")
	}
	if h.session == nil {
		return h.errorOrFallback("lang_load", ferrors.WrapSentinel(ferrors.ErrLoaderRequired, "", nil), "")
	}
	opts := h.loadOptions(execCtx, variant...)
	loaded, err := h.session.Load(h.context(execCtx), normalized, opts...)
	if err != nil {
		return h.errorOrFallback("lang_load", err, "")
	}
	return loaded
}

func (h *helperSet) langTrace(execCtx *pongo2.ExecutionContext, name any, variant ...any) any {
	normalized, ok := parseKey(name)
	if !ok {
		return h.errorOrFallback("lang_trace", ferrors.WrapSentinel(ferrors.ErrInvalidName, "", map[string]any{
			ferrors.MetaResourceName: unwrapValue(name),
		}), nil)
	}
	opts := append(h.loadOptions(execCtx, variant...), resource.WithFatal(false))
	_, trace, err := h.trace.LoadWithTrace(h.context(execCtx), normalized, opts...)
	if err != nil {
		return h.errorOrFallback("lang_trace", err, nil)
	}
	return trace
}

func (h *helperSet) themeSetting(execCtx *pongo2.ExecutionContext, key any, fallback ...any) any {
	normalized, ok := parseKey(key)
	var def any = ""
	if len(fallback) > 0 {
		def = unwrapValue(fallback[0])
	}
	if !ok {
		return def
	}
	data, ok := h.theme(execCtx)
	if !ok {
		return def
	}
	if value, ok := data.Option(normalized); ok {
		return value
	}
	if value, ok := data.Settings[normalized]; ok {
		return value
	}
	return def
}

func (h *helperSet) loadOptions(execCtx *pongo2.ExecutionContext, variant ...any) []resource.LoadOption {
	opts := []resource.LoadOption{}
	if current := h.scope(execCtx); current != nil {
		opts = append(opts, resource.WithScope(*current))
	}
	if len(variant) > 0 {
		if value := strings.TrimSpace(stringValue(variant[0])); value != "" {
			opts = append(opts, resource.WithVariant(value))
		}
	}
	return opts
}

func (h *helperSet) context(execCtx *pongo2.ExecutionContext) context.Context {
	raw, ok := lookup(execCtx, h.cfg.ContextKey, TemplateContextKey)
	if !ok || raw == nil {
		return context.Background()
	}
	return contextFromValue(raw)
}

func (h *helperSet) scope(execCtx *pongo2.ExecutionContext) *resource.Scope {
	raw, ok := lookup(execCtx, h.cfg.ScopeKey, TemplateScopeKey)
	if !ok || raw == nil {
		return nil
	}
	current, ok := scopeFromValue(raw)
	if !ok {
		return nil
	}
	return &current
}

func (h *helperSet) snapshot(execCtx *pongo2.ExecutionContext) any {
	raw, ok := lookup(execCtx, h.cfg.SnapshotKey, TemplateSnapshotKey)
	if !ok {
		return nil
	}
	return raw
}

func (h *helperSet) theme(execCtx *pongo2.ExecutionContext) (theme.Data, bool) {
	raw, ok := lookup(execCtx, h.cfg.ThemeKey, TemplateThemeKey)
	if !ok || raw == nil {
		return theme.Data{}, false
	}
	switch typed := raw.(type) {
	case theme.Data:
		return typed, true
	case *theme.Data:
		if typed == nil {
			return theme.Data{}, false
		}
		return *typed, true
	default:
		return theme.Data{}, false
	}
}

func (h *helperSet) errorOrFallback(helper string, err error, fallback any) any {
	if h.cfg.EnableErrorLogging {
		h.logHelperError(helper, err)
	}
	if h.cfg.EnableStructuredErrors {
		return templateError(helper, err)
	}
	return fallback
}

// TemplateError provides structured helper error output.
type TemplateError struct {
	Helper   string         `json:"helper"`
	Type     string         `json:"type,omitempty"`
	Message  string         `json:"message,omitempty"`
	Category string         `json:"category,omitempty"`
	TextCode string         `json:"text_code,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func templateError(helper string, err error) TemplateError {
	out := TemplateError{Helper: helper}
	if err == nil {
		return out
	}
	if rich, ok := ferrors.As(err); ok {
		out.Message = rich.Message
		out.Category = rich.Category.String()
		out.TextCode = rich.TextCode
		if len(rich.Metadata) > 0 {
			out.Metadata = rich.Metadata
		}
		if out.TextCode != "" {
			out.Type = out.TextCode
		} else if out.Category != "" {
			out.Type = out.Category
		}
		return out
	}
	out.Message = err.Error()
	out.Type = "error"
	return out
}

// SnapshotReader reports precomputed strings by key.
type SnapshotReader interface {
	Lookup(key string) (string, bool)
}

// Snapshot holds strings rendered ahead of time, for example by a worker
// that cannot share the session.
type Snapshot struct {
	Txt resource.Table
}

// Lookup implements SnapshotReader.
func (s Snapshot) Lookup(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	value := s.Txt.String(key)
	return value, value != ""
}

func snapshotString(snapshot any, key string) (string, bool) {
	if reader, ok := snapshot.(SnapshotReader); ok {
		return reader.Lookup(key)
	}
	switch typed := snapshot.(type) {
	case map[string]string:
		value, ok := typed[key]
		return value, ok
	case resource.Table:
		value := typed.String(key)
		return value, value != ""
	case map[string]any:
		if value, ok := typed[key].(string); ok {
			return value, true
		}
	}
	return "", false
}

func parseKey(value any) (string, bool) {
	raw := unwrapValue(value)
	switch typed := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		return trimmed, trimmed != ""
	case fmt.Stringer:
		trimmed := strings.TrimSpace(typed.String())
		return trimmed, trimmed != ""
	default:
		return "", false
	}
}

func flattenStrings(values ...any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = unwrapValue(value)
		switch typed := value.(type) {
		case []string:
			out = append(out, typed...)
		case []any:
			for _, item := range typed {
				out = append(out, stringValue(item))
			}
		default:
			out = append(out, stringValue(value))
		}
	}
	return out
}

func stringValue(value any) string {
	value = unwrapValue(value)
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func intFromValue(value any) (int, bool) {
	switch typed := unwrapValue(value).(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		return n, err == nil
	default:
		return 0, false
	}
}

func unwrapValue(value any) any {
	if value == nil {
		return nil
	}
	if pv, ok := value.(*pongo2.Value); ok && pv != nil {
		return pv.Interface()
	}
	return value
}

func contextFromValue(value any) context.Context {
	switch typed := value.(type) {
	case context.Context:
		return typed
	case interface{ Context() context.Context }:
		return typed.Context()
	default:
		return context.Background()
	}
}

func scopeFromValue(value any) (resource.Scope, bool) {
	switch typed := value.(type) {
	case resource.Scope:
		return typed, true
	case *resource.Scope:
		if typed == nil {
			return resource.Scope{}, false
		}
		return *typed, true
	case map[string]any:
		return scopeFromMap(typed)
	case map[string]string:
		raw := map[string]any{}
		for key, val := range typed {
			raw[key] = val
		}
		return scopeFromMap(raw)
	default:
		return resource.Scope{}, false
	}
}

func scopeFromMap(data map[string]any) (resource.Scope, bool) {
	if len(data) == 0 {
		return resource.Scope{}, false
	}
	current := resource.Scope{MemberID: -1}
	set := false
	if val, ok := data[scope.MetadataMemberID]; ok {
		if n, ok := intFromValue(val); ok {
			current.MemberID = n
			set = true
		}
	}
	if val, ok := data[scope.MetadataThemeID]; ok {
		if n, ok := intFromValue(val); ok {
			current.ThemeID = n
			set = true
		}
	}
	if val, ok := data[scope.MetadataLanguage]; ok {
		if lang, ok := val.(string); ok && strings.TrimSpace(lang) != "" {
			current.Language = strings.TrimSpace(lang)
			set = true
		}
	}
	return current, set
}

func lookup(execCtx *pongo2.ExecutionContext, key, fallback string) (any, bool) {
	if execCtx == nil || execCtx.Public == nil {
		return nil, false
	}
	if key == "" {
		key = fallback
	}
	raw, ok := execCtx.Public[key]
	return raw, ok
}

func (h *helperSet) logHelperError(helper string, err error) {
	if h == nil || h.cfg.Logger == nil {
		return
	}
	args := []any{
		"helper", helper,
		"error", err,
	}
	if rich, ok := ferrors.As(err); ok {
		args = append(args,
			"category", rich.Category,
			"text_code", rich.TextCode,
			"metadata", rich.Metadata,
		)
	}
	h.cfg.Logger.Error("langtheme.helper_error", args...)
}
