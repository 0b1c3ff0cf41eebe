package resolver

import (
	"context"
	"strings"

	"github.com/goliatone/go-langtheme/resource"
)

// Settings configures a Session.
type Settings struct {
	LanguagesDir            string
	DefaultLanguage         string
	BaselineLanguage        string
	DisableLanguageFallback bool
	BackwardCompatibility   bool
	Debug                   bool
	Extensions              []string
	CharacterSet            string
	UTF8                    bool
}

// DefaultSettings returns settings for an en_US forum with UTF-8 enabled.
func DefaultSettings() Settings {
	return Settings{
		DefaultLanguage:  resource.BaselineVariant,
		BaselineLanguage: resource.BaselineVariant,
		UTF8:             true,
	}
}

func (s Settings) normalized() Settings {
	s.LanguagesDir = strings.TrimSpace(s.LanguagesDir)
	s.DefaultLanguage = strings.TrimSpace(s.DefaultLanguage)
	s.BaselineLanguage = strings.TrimSpace(s.BaselineLanguage)
	if s.BaselineLanguage == "" {
		s.BaselineLanguage = resource.BaselineVariant
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = s.BaselineLanguage
	}
	return s
}

// LocaleVariants expands a locale identifier with charset suffixes, most
// specific first. Identifiers that already carry a charset are returned alone.
func (s Settings) LocaleVariants(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	if strings.Contains(locale, ".") {
		return []string{locale}
	}
	var variants []string
	if s.CharacterSet != "" {
		variants = append(variants, locale+"."+s.CharacterSet)
	}
	if s.UTF8 {
		variants = append(variants, locale+".UTF-8", locale+".UTF8", locale+".utf-8", locale+".utf8")
	}
	variants = append(variants, locale)
	return uniqueStrings(variants)
}

// LocaleHook receives the locale variants after a load merged a lang_locale.
type LocaleHook interface {
	ApplyLocale(ctx context.Context, variants []string)
}

// LocaleHookFunc wraps a function as a LocaleHook.
type LocaleHookFunc func(context.Context, []string)

// ApplyLocale implements LocaleHook.
func (fn LocaleHookFunc) ApplyLocale(ctx context.Context, variants []string) {
	if fn == nil {
		return
	}
	fn(ctx, variants)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
