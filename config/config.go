// Package config loads resolver, cache and theme settings from a config file
// and LANGTHEME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/goliatone/go-langtheme/adapters/configadapter"
	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resolver"
	"github.com/goliatone/go-langtheme/store"
)

// EnvPrefix is the environment variable prefix, e.g. LANGTHEME_DEFAULT_LANGUAGE.
const EnvPrefix = "LANGTHEME"

// DefaultName is the config file name searched for when no path is given.
const DefaultName = "langtheme"

const (
	KeyLogLevel   = "log_level"
	KeyGuestTheme = "guest_theme"
	KeyDatabase   = "database"
	KeyThemes     = "themes"
)

var envKeys = []string{
	configadapter.KeyLanguagesDir,
	configadapter.KeyDefaultLanguage,
	configadapter.KeyBaselineLanguage,
	configadapter.KeyDisableLanguageFallback,
	configadapter.KeyBackwardCompatibility,
	configadapter.KeyDebug,
	configadapter.KeyExtensions,
	configadapter.KeyCharacterSet,
	configadapter.KeyUTF8,
	configadapter.KeyCacheLevel,
	configadapter.KeyCacheShortTTL,
	configadapter.KeyCacheLongTTL,
	configadapter.KeyCacheCatalogTTL,
	KeyDatabase,
}

// Config is the loaded configuration.
type Config struct {
	Settings   resolver.Settings
	Cache      cache.Config
	LogLevel   string
	GuestTheme int
	// Database is an optional sqlite DSN holding the themes table.
	Database string
	// ThemeRows are theme-wide rows declared under themes.<id>.<variable>.
	ThemeRows []store.Row
	// File is the config file that was read, if any.
	File string
}

type loadOptions struct {
	fs      afero.Fs
	paths   []string
	viper   *viper.Viper
	environ bool
}

// Option customizes Load.
type Option func(*loadOptions)

// WithFs reads config files from fs.
func WithFs(fs afero.Fs) Option {
	return func(opts *loadOptions) {
		if opts == nil || fs == nil {
			return
		}
		opts.fs = fs
	}
}

// WithSearchPaths sets the directories searched for langtheme.{yaml,toml,json}.
func WithSearchPaths(paths ...string) Option {
	return func(opts *loadOptions) {
		if opts == nil {
			return
		}
		opts.paths = append([]string(nil), paths...)
	}
}

// WithViper loads into an existing viper instance, such as one with bound
// command flags.
func WithViper(v *viper.Viper) Option {
	return func(opts *loadOptions) {
		if opts == nil || v == nil {
			return
		}
		opts.viper = v
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(opts *loadOptions) {
		if opts == nil {
			return
		}
		opts.environ = false
	}
}

// Load reads path, or searches for langtheme.* when path is blank. A missing
// searched file is not an error.
func Load(path string, options ...Option) (Config, error) {
	opts := loadOptions{paths: []string{"."}, environ: true}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	v := opts.viper
	if v == nil {
		v = viper.New()
	}
	if opts.fs != nil {
		v.SetFs(opts.fs)
	}
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyGuestTheme, store.DefaultTheme)
	if opts.environ {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		for _, key := range envKeys {
			_ = v.BindEnv(key)
		}
		v.AutomaticEnv()
	}

	path = strings.TrimSpace(path)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, ferrors.WrapBadInput(err, ferrors.TextCodeConfigInvalid, "config: failed to read config file", map[string]any{
				ferrors.MetaPath: path,
			})
		}
	} else {
		v.SetConfigName(DefaultName)
		for _, dir := range opts.paths {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, ferrors.WrapBadInput(err, ferrors.TextCodeConfigInvalid, "config: failed to read config file", nil)
			}
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	data := v.AllSettings()
	settings, err := configadapter.NewSettings(data)
	if err != nil {
		return Config{}, err
	}
	cacheCfg, err := configadapter.NewCacheConfig(data)
	if err != nil {
		return Config{}, err
	}
	rows, err := themeRows(v.GetStringMap(KeyThemes))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Settings:   settings,
		Cache:      cacheCfg,
		LogLevel:   strings.TrimSpace(v.GetString(KeyLogLevel)),
		GuestTheme: v.GetInt(KeyGuestTheme),
		Database:   strings.TrimSpace(v.GetString(KeyDatabase)),
		ThemeRows:  rows,
		File:       v.ConfigFileUsed(),
	}, nil
}

func themeRows(themes map[string]any) ([]store.Row, error) {
	ids := make([]string, 0, len(themes))
	for id := range themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows []store.Row
	for _, id := range ids {
		themeID, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil || themeID <= 0 {
			return nil, ferrors.NewBadInput(ferrors.TextCodeConfigInvalid, "config: theme ids must be positive integers", map[string]any{
				ferrors.MetaPath: KeyThemes + "." + id,
			})
		}
		vars, ok := themes[id].(map[string]any)
		if !ok {
			return nil, ferrors.NewBadInput(ferrors.TextCodeConfigInvalid, "config: theme entry must be a map", map[string]any{
				ferrors.MetaPath: KeyThemes + "." + id,
			})
		}
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rows = append(rows, store.Row{
				ThemeID:  themeID,
				MemberID: store.GlobalMember,
				Variable: name,
				Value:    scalar(vars[name]),
			})
		}
	}
	return rows, nil
}

func scalar(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		if typed {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
