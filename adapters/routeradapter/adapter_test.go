package routeradapter

import (
	"context"
	"testing"

	"github.com/goliatone/go-langtheme/resource"
)

type stubLoader struct {
	name string
	req  resource.LoadRequest
}

func (s *stubLoader) Load(_ context.Context, name string, opts ...resource.LoadOption) (string, error) {
	s.name = name
	for _, opt := range opts {
		opt(&s.req)
	}
	return s.req.Variant, nil
}

func TestLoadWithoutRouterContextUsesGuestScope(t *testing.T) {
	files := &stubLoader{}
	variant, err := Load(nil, files, "General", resource.WithVariant("de_DE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if variant != "de_DE" || files.name != "General" {
		t.Fatalf("unexpected load %q %q", files.name, variant)
	}
	if files.req.Scope == nil || !files.req.Scope.Guest() {
		t.Fatalf("expected guest scope, got %+v", files.req.Scope)
	}
}
