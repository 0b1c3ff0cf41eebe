package configadapter

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resolver"
)

// Keys read from flattened configuration maps.
const (
	KeyLanguagesDir            = "languages_dir"
	KeyDefaultLanguage         = "default_language"
	KeyBaselineLanguage        = "baseline_language"
	KeyDisableLanguageFallback = "disable_language_fallback"
	KeyBackwardCompatibility   = "backward_compatibility"
	KeyDebug                   = "debug"
	KeyExtensions              = "extensions"
	KeyCharacterSet            = "character_set"
	KeyUTF8                    = "utf8"
	KeyCacheLevel              = "cache.level"
	KeyCacheShortTTL           = "cache.short_ttl"
	KeyCacheLongTTL            = "cache.long_ttl"
	KeyCacheCatalogTTL         = "cache.catalog_ttl"
)

type configOptions struct {
	delimiter string
}

// Option configures configadapter parsing.
type Option func(*configOptions)

// WithDelimiter sets the key delimiter used when flattening nested maps.
func WithDelimiter(delimiter string) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.delimiter = delimiter
	}
}

// Values is a flattened view over a nested configuration map.
type Values struct {
	values map[string]any
	delim  string
}

// NewValues flattens data. Keys are lowercased to match viper.
func NewValues(data map[string]any, opts ...Option) *Values {
	cfg := configOptions{delimiter: "."}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.delimiter == "" {
		cfg.delimiter = "."
	}
	values := map[string]any{}
	flatten("", data, cfg.delimiter, values)
	return &Values{values: values, delim: cfg.delimiter}
}

// Get returns the raw value for a dotted key.
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if v.delim != "." {
		key = strings.ReplaceAll(key, ".", v.delim)
	}
	value, ok := v.values[key]
	return value, ok
}

// String returns a trimmed string value.
func (v *Values) String(key string) (string, bool) {
	raw, ok := v.Get(key)
	if !ok {
		return "", false
	}
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// Bool reads bool, config.OptionalBool or a parseable string. Unset optional
// bools report ok=false.
func (v *Values) Bool(key string) (bool, bool, error) {
	raw, ok := v.Get(key)
	if !ok {
		return false, false, nil
	}
	value, set, valid := boolFromValue(raw)
	if !valid {
		return false, false, invalid(key, raw)
	}
	return value, set, nil
}

// Int reads an integer value.
func (v *Values) Int(key string) (int, bool, error) {
	raw, ok := v.Get(key)
	if !ok {
		return 0, false, nil
	}
	switch typed := raw.(type) {
	case int:
		return typed, true, nil
	case int64:
		return int(typed), true, nil
	case float64:
		return int(typed), true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false, invalid(key, raw)
		}
		return n, true, nil
	default:
		return 0, false, invalid(key, raw)
	}
}

// Duration reads a duration string ("90s") or a number of seconds.
func (v *Values) Duration(key string) (time.Duration, bool, error) {
	raw, ok := v.Get(key)
	if !ok {
		return 0, false, nil
	}
	switch typed := raw.(type) {
	case time.Duration:
		return typed, true, nil
	case int:
		return time.Duration(typed) * time.Second, true, nil
	case int64:
		return time.Duration(typed) * time.Second, true, nil
	case float64:
		return time.Duration(typed * float64(time.Second)), true, nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if secs, err := strconv.Atoi(trimmed); err == nil {
			return time.Duration(secs) * time.Second, true, nil
		}
		d, err := time.ParseDuration(trimmed)
		if err != nil {
			return 0, false, invalid(key, raw)
		}
		return d, true, nil
	default:
		return 0, false, invalid(key, raw)
	}
}

// Strings reads a list or a comma separated string.
func (v *Values) Strings(key string) ([]string, bool) {
	raw, ok := v.Get(key)
	if !ok {
		return nil, false
	}
	var parts []string
	switch typed := raw.(type) {
	case []string:
		parts = typed
	case []any:
		for _, item := range typed {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	case string:
		parts = strings.Split(typed, ",")
	default:
		return nil, false
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, len(out) > 0
}

// NewSettings builds resolver settings on top of resolver.DefaultSettings.
func NewSettings(data map[string]any, opts ...Option) (resolver.Settings, error) {
	values := NewValues(data, opts...)
	settings := resolver.DefaultSettings()

	if value, ok := values.String(KeyLanguagesDir); ok {
		settings.LanguagesDir = value
	}
	if value, ok := values.String(KeyDefaultLanguage); ok && value != "" {
		settings.DefaultLanguage = value
	}
	if value, ok := values.String(KeyBaselineLanguage); ok && value != "" {
		settings.BaselineLanguage = value
	}
	if value, ok := values.String(KeyCharacterSet); ok {
		settings.CharacterSet = value
	}
	if exts, ok := values.Strings(KeyExtensions); ok {
		settings.Extensions = normalizeExtensions(exts)
	}

	flags := []struct {
		key    string
		target *bool
	}{
		{KeyDisableLanguageFallback, &settings.DisableLanguageFallback},
		{KeyBackwardCompatibility, &settings.BackwardCompatibility},
		{KeyDebug, &settings.Debug},
		{KeyUTF8, &settings.UTF8},
	}
	for _, flag := range flags {
		value, set, err := values.Bool(flag.key)
		if err != nil {
			return resolver.Settings{}, err
		}
		if set {
			*flag.target = value
		}
	}
	return settings, nil
}

// NewCacheConfig builds cache configuration on top of cache.DefaultConfig.
func NewCacheConfig(data map[string]any, opts ...Option) (cache.Config, error) {
	values := NewValues(data, opts...)
	cfg := cache.DefaultConfig()
	if level, ok, err := values.Int(KeyCacheLevel); err != nil {
		return cache.Config{}, err
	} else if ok {
		cfg.Level = level
	}
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{KeyCacheShortTTL, &cfg.ShortTTL},
		{KeyCacheLongTTL, &cfg.LongTTL},
		{KeyCacheCatalogTTL, &cfg.CatalogTTL},
	}
	for _, item := range durations {
		value, ok, err := values.Duration(item.key)
		if err != nil {
			return cache.Config{}, err
		}
		if ok {
			*item.target = value
		}
	}
	return cfg, nil
}

type optionalBool interface {
	IsSet() bool
	Value() bool
}

func boolFromValue(value any) (result bool, set bool, valid bool) {
	switch typed := value.(type) {
	case config.OptionalBool:
		return typed.Value(), typed.IsSet(), true
	case *config.OptionalBool:
		if typed == nil {
			return false, false, true
		}
		return typed.Value(), typed.IsSet(), true
	case optionalBool:
		return typed.Value(), typed.IsSet(), true
	case bool:
		return typed, true, true
	case *bool:
		if typed == nil {
			return false, false, true
		}
		return *typed, true, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, false, false
		}
		return parsed, true, true
	default:
		return false, false, false
	}
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func invalid(key string, value any) error {
	return ferrors.NewBadInput(ferrors.TextCodeConfigInvalid, "invalid configuration value", map[string]any{
		ferrors.MetaPath:   key,
		ferrors.MetaFormat: value,
	})
}

func flatten(prefix string, data map[string]any, delim string, out map[string]any) {
	if len(data) == 0 {
		return
	}
	for key, value := range data {
		trimmedKey := strings.ToLower(strings.TrimSpace(key))
		if trimmedKey == "" {
			continue
		}
		path := trimmedKey
		if prefix != "" {
			path = prefix + delim + trimmedKey
		}

		switch typed := value.(type) {
		case map[string]any:
			flatten(path, typed, delim, out)
		case map[any]any:
			nested := make(map[string]any, len(typed))
			for k, v := range typed {
				if s, ok := k.(string); ok {
					nested[s] = v
				}
			}
			flatten(path, nested, delim, out)
		default:
			out[path] = value
		}
	}
}
