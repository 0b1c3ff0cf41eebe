package optionsadapter

import (
	"context"
	"testing"

	"github.com/goliatone/go-admin/admin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/store"
)

func TestPreferencesStoreAdapterMemberRows(t *testing.T) {
	ctx := context.Background()
	prefs := admin.NewInMemoryPreferencesStore()
	s := NewStore(NewPreferencesStoreAdapter(prefs))

	row := store.Row{ThemeID: 1, MemberID: 5, Variable: "show_avatars", Value: "1"}
	if err := s.Set(ctx, row, resource.ActorRef{ID: "actor-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Rows(ctx, []int{1}, []int{5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]store.Row{row}, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	snapshot, err := prefs.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  admin.PreferenceScope{UserID: "5"},
		Levels: []admin.PreferenceLevel{admin.PreferenceLevelUser},
		Keys:   []string{"theme_settings.1.5.show_avatars"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Effective["theme_settings.1.5.show_avatars"] != "1" {
		t.Fatalf("expected stored preference value 1, got %v", snapshot.Effective["theme_settings.1.5.show_avatars"])
	}
}

func TestPreferencesStoreAdapterThemeWideUnset(t *testing.T) {
	ctx := context.Background()
	prefs := admin.NewInMemoryPreferencesStore()
	s := NewStore(NewPreferencesStoreAdapter(prefs, WithVariables("theme_dir", "theme_url")))
	actor := resource.ActorRef{}

	if err := s.Set(ctx, store.Row{ThemeID: 2, MemberID: 0, Variable: "theme_dir", Value: "/themes/dark"}, actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set(ctx, store.Row{ThemeID: 2, MemberID: 0, Variable: "theme_url", Value: "/t/dark"}, actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Unset(ctx, 2, 0, "theme_url", actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Rows(ctx, []int{2}, []int{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []store.Row{{ThemeID: 2, MemberID: 0, Variable: "theme_dir", Value: "/themes/dark"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}
