package urlkitadapter

import (
	"errors"
	"testing"
)

func TestAdapterRequiresResolver(t *testing.T) {
	_, err := New(nil, "forum").Resolve("", "index", nil, nil)
	if !errors.Is(err, ErrResolverRequired) {
		t.Fatalf("expected ErrResolverRequired, got %v", err)
	}
}
