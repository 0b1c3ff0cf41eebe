package ferrors

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestWrapSentinelPreservesIsAndMetadata(t *testing.T) {
	err := WrapSentinel(ErrResourceNotFound, "", map[string]any{
		MetaResourceName: "Admin",
		MetaVariant:      "de_DE",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	rich, ok := As(err)
	if !ok {
		t.Fatalf("expected rich error")
	}
	if rich.Category != goerrors.CategoryOperation {
		t.Fatalf("unexpected category: %s", rich.Category)
	}
	if rich.Code != 404 {
		t.Fatalf("unexpected code: %d", rich.Code)
	}
	if rich.Metadata == nil || rich.Metadata[MetaResourceName] != "Admin" || rich.Metadata[MetaVariant] != "de_DE" {
		t.Fatalf("expected metadata to include name and variant, got %v", rich.Metadata)
	}
}

func TestIsNotFoundFollowsWrapping(t *testing.T) {
	inner := WrapSentinel(ErrResourceNotFound, "", nil)
	outer := fmt.Errorf("loading: %w", inner)
	if !IsNotFound(outer) {
		t.Fatalf("expected wrapped not-found to be detected")
	}
	if IsNotFound(WrapSentinel(ErrInvalidName, "", nil)) {
		t.Fatalf("did not expect invalid name to count as not found")
	}
	if !IsInvalidName(WrapSentinel(ErrInvalidName, "", nil)) {
		t.Fatalf("expected invalid name to be detected")
	}
}

func TestWrapKeepsPlainErrorAsSource(t *testing.T) {
	cause := errors.New("disk gone")
	err := WrapExternal(cause, TextCodeStoreReadFailed, "theme rows failed", map[string]any{
		MetaThemeID: 3,
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.TextCode != TextCodeStoreReadFailed {
		t.Fatalf("unexpected text code: %s", err.TextCode)
	}
	if err.Category != goerrors.CategoryExternal {
		t.Fatalf("unexpected category: %s", err.Category)
	}
}
