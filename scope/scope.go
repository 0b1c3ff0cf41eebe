package scope

import (
	"context"
	"strings"

	"github.com/goliatone/go-langtheme/resource"
)

type contextKey string

const (
	memberIDKey contextKey = "langtheme.member_id"
	themeIDKey  contextKey = "langtheme.theme_id"
	languageKey contextKey = "langtheme.language"
)

// Metadata keys used when scope values travel as string maps.
const (
	MetadataMemberID = "member_id"
	MetadataThemeID  = "theme_id"
	MetadataLanguage = "language"
)

// WithMemberID stores the member id in context. Ids <= 0 mean guest.
func WithMemberID(ctx context.Context, memberID int) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// WithThemeID stores the theme id in context. Ids <= 0 are ignored.
func WithThemeID(ctx context.Context, themeID int) context.Context {
	if themeID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, themeIDKey, themeID)
}

// WithLanguage stores the requested language variant in context.
// Blank values are ignored.
func WithLanguage(ctx context.Context, language string) context.Context {
	language = strings.TrimSpace(language)
	if language == "" {
		return ctx
	}
	return context.WithValue(ctx, languageKey, language)
}

// MemberID extracts the member id, returning -1 for guests.
func MemberID(ctx context.Context) int {
	if id, ok := ctx.Value(memberIDKey).(int); ok && id > 0 {
		return id
	}
	return -1
}

// ThemeID extracts the theme id, or 0 when unset.
func ThemeID(ctx context.Context) int {
	if id, ok := ctx.Value(themeIDKey).(int); ok {
		return id
	}
	return 0
}

// Language extracts the requested language variant.
func Language(ctx context.Context) string {
	if language, ok := ctx.Value(languageKey).(string); ok {
		return language
	}
	return ""
}

// FromContext builds a Scope from context values.
func FromContext(ctx context.Context) resource.Scope {
	if ctx == nil {
		return resource.Scope{MemberID: -1}
	}
	return resource.Scope{
		ThemeID:  ThemeID(ctx),
		MemberID: MemberID(ctx),
		Language: Language(ctx),
	}
}

// Resolver implements resource.ScopeResolver from context values.
type Resolver struct{}

// Resolve implements resource.ScopeResolver.
func (Resolver) Resolve(ctx context.Context) (resource.Scope, error) {
	return FromContext(ctx), nil
}

var _ resource.ScopeResolver = Resolver{}
