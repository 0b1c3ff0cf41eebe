package theme

import (
	"strings"

	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/store"
)

// Data is the resolved theme: theme-wide settings and the member's options.
type Data struct {
	ThemeID  int
	MemberID int
	Settings map[string]any
	Options  map[string]any
}

// String returns a setting as a string, or "" when missing.
func (d Data) String(key string) string {
	if s, ok := d.Settings[key].(string); ok {
		return s
	}
	return ""
}

// Option returns a member option, falling back to nil when missing.
func (d Data) Option(key string) (any, bool) {
	value, ok := d.Options[key]
	return value, ok
}

// Dirs exposes the resource roots used by the chain builder.
func (d Data) Dirs() resource.ThemeDirs {
	return resource.ThemeDirs{
		ThemeID:         d.ThemeID,
		ThemeDir:        d.String("theme_dir"),
		BaseThemeDir:    d.String("base_theme_dir"),
		DefaultThemeDir: d.String("default_theme_dir"),
		ThemeURL:        d.String("theme_url"),
	}
}

// TemplateDirs returns the theme, base theme and default theme dirs in lookup order.
func (d Data) TemplateDirs() []string {
	if dirs, ok := d.Settings["template_dirs"].([]string); ok {
		out := make([]string, len(dirs))
		copy(out, dirs)
		return out
	}
	return nil
}

// reservedVariables cannot be set by members.
var reservedVariables = map[string]struct{}{
	"actual_theme_url":    {},
	"actual_images_url":   {},
	"base_theme_dir":      {},
	"base_theme_url":      {},
	"default_images_url":  {},
	"default_theme_dir":   {},
	"default_theme_url":   {},
	"default_template":    {},
	"images_url":          {},
	"number_recent_posts": {},
	"smiley_sets_default": {},
	"theme_dir":           {},
	"theme_id":            {},
	"theme_layers":        {},
	"theme_templates":     {},
	"theme_url":           {},
}

// defaultLocationVariables are mirrored as default_* when read from the default theme.
var defaultLocationVariables = map[string]struct{}{
	"theme_dir":  {},
	"theme_url":  {},
	"images_url": {},
}

// IsReserved reports whether variable is reserved for theme-wide settings.
func IsReserved(variable string) bool {
	_, ok := reservedVariables[variable]
	return ok
}

// snapshot holds per-member tables keyed by member id (-1 guests, 0 theme-wide).
type snapshot map[int]map[string]any

func newSnapshot(member int) snapshot {
	return snapshot{
		store.GuestMember:  map[string]any{},
		store.GlobalMember: map[string]any{},
		member:             map[string]any{},
	}
}

func (s snapshot) clone() snapshot {
	out := make(snapshot, len(s))
	for member, values := range s {
		copied := make(map[string]any, len(values))
		for key, value := range values {
			copied[key] = value
		}
		out[member] = copied
	}
	return out
}

func (s snapshot) bucket(member int) map[string]any {
	if s[member] == nil {
		s[member] = map[string]any{}
	}
	return s[member]
}

// apply merges rows ordered by ascending theme id. Rows from the requested
// theme overwrite rows from the default theme; default theme rows only fill gaps.
func (s snapshot) apply(rows []store.Row) {
	for _, row := range rows {
		if row.MemberID != store.GlobalMember && IsReserved(row.Variable) {
			continue
		}
		if _, ok := defaultLocationVariables[row.Variable]; ok && row.ThemeID == store.DefaultTheme && row.MemberID == store.GlobalMember {
			s.bucket(store.GlobalMember)["default_"+row.Variable] = row.Value
		}
		bucket := s.bucket(row.MemberID)
		if _, set := bucket[row.Variable]; !set || row.ThemeID != store.DefaultTheme {
			bucket[row.Variable] = rowValue(row)
		}
	}
}

// fillGuestDefaults copies guest options the member has not set.
func (s snapshot) fillGuestDefaults(member int) {
	guest := s[store.GuestMember]
	target := s.bucket(member)
	for key, value := range guest {
		if _, ok := target[key]; !ok {
			target[key] = value
		}
	}
}

func rowValue(row store.Row) any {
	if strings.HasPrefix(row.Variable, "show_") {
		return row.Value == "1"
	}
	return row.Value
}
