package scope

import (
	"context"
	"testing"

	"github.com/goliatone/go-langtheme/resource"
)

func TestScopeHelpersIgnoreBlankValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithMemberID(ctx, 42)
	ctx = WithThemeID(ctx, 3)
	ctx = WithLanguage(ctx, "  de_DE ")

	if got := MemberID(ctx); got != 42 {
		t.Fatalf("MemberID() = %d, want 42", got)
	}
	if got := ThemeID(ctx); got != 3 {
		t.Fatalf("ThemeID() = %d, want 3", got)
	}
	if got := Language(ctx); got != "de_DE" {
		t.Fatalf("Language() = %q, want de_DE", got)
	}

	ctx = WithThemeID(ctx, 0)
	ctx = WithLanguage(ctx, "\t")
	if got := ThemeID(ctx); got != 3 {
		t.Fatalf("ThemeID() after no-op = %d, want 3", got)
	}
	if got := Language(ctx); got != "de_DE" {
		t.Fatalf("Language() after no-op = %q, want de_DE", got)
	}
}

func TestMemberIDDefaultsToGuest(t *testing.T) {
	if got := MemberID(context.Background()); got != -1 {
		t.Fatalf("MemberID() = %d, want -1", got)
	}
	if got := MemberID(WithMemberID(context.Background(), 0)); got != -1 {
		t.Fatalf("MemberID(0) = %d, want -1", got)
	}
}

func TestFromContextNil(t *testing.T) {
	var ctx context.Context
	got := FromContext(ctx)
	if got != (resource.Scope{MemberID: -1}) {
		t.Fatalf("FromContext(nil) = %+v, want guest scope", got)
	}
	if !got.Guest() {
		t.Fatalf("expected guest scope")
	}
}

func TestResolver(t *testing.T) {
	ctx := WithLanguage(WithMemberID(context.Background(), 9), "fr_FR")
	got, err := Resolver{}.Resolve(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MemberID != 9 || got.Language != "fr_FR" {
		t.Fatalf("unexpected scope: %+v", got)
	}
}
