package theme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/activity"
	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
	"github.com/goliatone/go-langtheme/store"
)

type countingStore struct {
	*store.MemoryStore
	calls   int
	members [][]int
}

func (c *countingStore) Rows(ctx context.Context, themes, members []int) ([]store.Row, error) {
	c.calls++
	c.members = append(c.members, members)
	return c.MemoryStore.Rows(ctx, themes, members)
}

type failingStore struct{}

func (failingStore) Rows(context.Context, []int, []int) ([]store.Row, error) {
	return nil, errors.New("db down")
}

func seedRows() []store.Row {
	return []store.Row{
		{ThemeID: 1, MemberID: 0, Variable: "theme_dir", Value: "/themes/default"},
		{ThemeID: 1, MemberID: 0, Variable: "theme_url", Value: "/t/default"},
		{ThemeID: 1, MemberID: 0, Variable: "images_url", Value: "/t/default/images"},
		{ThemeID: 1, MemberID: 0, Variable: "name", Value: "Default"},
		{ThemeID: 1, MemberID: 0, Variable: "show_stats", Value: "0"},
		{ThemeID: 3, MemberID: 0, Variable: "theme_dir", Value: "/themes/custom"},
		{ThemeID: 3, MemberID: 0, Variable: "theme_url", Value: "/t/custom"},
		{ThemeID: 3, MemberID: 0, Variable: "images_url", Value: "/t/custom/images"},
		{ThemeID: 3, MemberID: 0, Variable: "show_stats", Value: "1"},
		{ThemeID: 1, MemberID: -1, Variable: "display_quick_reply", Value: "1"},
		{ThemeID: 3, MemberID: -1, Variable: "posts_per_page", Value: "20"},
		{ThemeID: 3, MemberID: 7, Variable: "posts_per_page", Value: "50"},
		{ThemeID: 3, MemberID: 7, Variable: "theme_dir", Value: "/evil"},
	}
}

func TestLoadMergesThemeRows(t *testing.T) {
	loader := NewLoader(WithStore(store.NewMemoryStore(seedRows()...)))

	data, err := loader.Load(context.Background(), 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.String("theme_dir") != "/themes/custom" {
		t.Fatalf("expected current theme to win, got %q", data.String("theme_dir"))
	}
	if data.String("default_theme_dir") != "/themes/default" || data.String("default_theme_url") != "/t/default" {
		t.Fatalf("expected default_* settings, got %#v", data.Settings)
	}
	if data.String("name") != "Default" {
		t.Fatalf("expected default theme to fill gaps")
	}
	if data.Settings["show_stats"] != true {
		t.Fatalf("expected show_ variables to become booleans, got %#v", data.Settings["show_stats"])
	}
	if data.String("actual_theme_dir") != "/themes/custom" || data.Settings["theme_id"] != 3 {
		t.Fatalf("expected derived settings, got %#v", data.Settings)
	}
	if diff := cmp.Diff([]string{"/themes/custom", "/themes/default"}, data.TemplateDirs()); diff != "" {
		t.Fatalf("unexpected template dirs (-want +got):\n%s", diff)
	}

	want := map[string]any{"posts_per_page": "50", "display_quick_reply": "1"}
	if diff := cmp.Diff(want, data.Options); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestLoadGuestUsesGuestOptions(t *testing.T) {
	loader := NewLoader(WithStore(store.NewMemoryStore(seedRows()...)))

	data, err := loader.Load(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.MemberID != -1 {
		t.Fatalf("expected guest member id, got %d", data.MemberID)
	}
	if data.Options["posts_per_page"] != "20" {
		t.Fatalf("expected guest options, got %#v", data.Options)
	}
}

func TestLoadLongTierCachesThemeWideRowsOnly(t *testing.T) {
	rows := &countingStore{MemoryStore: store.NewMemoryStore(seedRows()...)}
	clk := time.Unix(10_000, 0)
	layer := cache.New(
		cache.WithBackend(cache.NewMemoryBackend()),
		cache.WithWatermark(cache.NewMemoryWatermark(clk.Add(-time.Hour))),
		cache.WithClock(func() time.Time { return clk }),
	)
	loader := NewLoader(WithStore(rows), WithCache(layer))
	ctx := context.Background()

	if _, err := loader.Load(ctx, 3, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := loader.Load(ctx, 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows.calls != 2 {
		t.Fatalf("expected member rows to be queried each time, got %d calls", rows.calls)
	}
	if diff := cmp.Diff([]int{7}, rows.members[1]); diff != "" {
		t.Fatalf("expected second query for the member only (-want +got):\n%s", diff)
	}
	if data.String("theme_dir") != "/themes/custom" || data.Options["posts_per_page"] != "50" {
		t.Fatalf("unexpected data from partial cache: %#v %#v", data.Settings, data.Options)
	}
}

func TestLoadShortTierCachesMemberSnapshot(t *testing.T) {
	rows := &countingStore{MemoryStore: store.NewMemoryStore(seedRows()...)}
	clk := time.Unix(10_000, 0)
	watermark := cache.NewMemoryWatermark(clk.Add(-time.Hour))
	layer := cache.New(
		cache.WithBackend(cache.NewMemoryBackend()),
		cache.WithWatermark(watermark),
		cache.WithClock(func() time.Time { return clk }),
		cache.WithConfig(cache.Config{Level: 2}),
	)
	loader := NewLoader(WithStore(rows), WithCache(layer), WithToucher(watermark))
	ctx := context.Background()

	first, _ := loader.Load(ctx, 3, 7)
	first.Options["posts_per_page"] = "mutated"
	second, err := loader.Load(ctx, 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows.calls != 1 {
		t.Fatalf("expected a single store query, got %d", rows.calls)
	}
	if second.Options["posts_per_page"] != "50" {
		t.Fatalf("expected cached snapshot to be isolated from callers")
	}

	if err := loader.SetOption(ctx, 3, 0, "name", "Custom", resource.ActorRef{ID: "admin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	third, _ := loader.Load(ctx, 3, 7)
	if rows.calls != 2 || third.String("name") != "Custom" {
		t.Fatalf("expected theme-wide write to invalidate, calls=%d name=%q", rows.calls, third.String("name"))
	}
}

func TestSetOptionRejectsReservedMemberVariables(t *testing.T) {
	var events []activity.UpdateEvent
	loader := NewLoader(
		WithStore(store.NewMemoryStore()),
		WithActivityHook(activity.HookFunc(func(_ context.Context, event activity.UpdateEvent) {
			events = append(events, event)
		})),
	)
	ctx := context.Background()

	err := loader.SetOption(ctx, 3, 7, "theme_dir", "/evil", resource.ActorRef{ID: "7"})
	if !errors.Is(err, ferrors.ErrReservedVariable) {
		t.Fatalf("expected reserved variable error, got %v", err)
	}
	if err := loader.SetOption(ctx, 3, 7, "posts_per_page", "10", resource.ActorRef{ID: "7"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := loader.UnsetOption(ctx, 3, 7, "posts_per_page", resource.ActorRef{ID: "7"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0].Action != activity.ActionSet || events[1].Action != activity.ActionUnset {
		t.Fatalf("unexpected events: %#v", events)
	}
	if events[0].Value == nil || *events[0].Value != "10" {
		t.Fatalf("expected set value in event")
	}
}

func TestLoadStoreErrors(t *testing.T) {
	if _, err := NewLoader().Load(context.Background(), 1, 0); !errors.Is(err, ferrors.ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
	_, err := NewLoader(WithStore(failingStore{})).Load(context.Background(), 1, 0)
	rich, ok := ferrors.As(err)
	if !ok || rich.TextCode != ferrors.TextCodeStoreReadFailed {
		t.Fatalf("expected store read failure, got %v", err)
	}
}

func TestProviderLoadEssentialUsesScope(t *testing.T) {
	provider := NewProvider(NewLoader(WithStore(store.NewMemoryStore(seedRows()...))))
	ctx := scope.WithThemeID(context.Background(), 3)

	if _, ok := provider.ThemeDirs(ctx); ok {
		t.Fatalf("expected no theme before essential load")
	}
	if err := provider.LoadEssential(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dirs, ok := provider.ThemeDirs(ctx)
	if !ok {
		t.Fatalf("expected theme dirs after essential load")
	}
	want := resource.ThemeDirs{ThemeID: 3, ThemeDir: "/themes/custom", DefaultThemeDir: "/themes/default", ThemeURL: "/t/custom"}
	if diff := cmp.Diff(want, dirs); diff != "" {
		t.Fatalf("unexpected dirs (-want +got):\n%s", diff)
	}
}

func TestProviderLocateTemplate(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/themes/default/Display.template.html", []byte("default"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := afero.WriteFile(fs, "/themes/default/index.template.html", []byte("default"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := afero.WriteFile(fs, "/themes/custom/index.template.html", []byte("custom"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	provider := NewProvider(NewLoader(WithStore(store.NewMemoryStore(seedRows()...))), WithTemplateFs(fs))
	ctx := context.Background()
	if _, err := provider.Load(ctx, 3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, ok := provider.LocateTemplate(ctx, "index")
	if !ok || path != "/themes/custom/index.template.html" {
		t.Fatalf("expected custom template, got %q", path)
	}
	path, ok = provider.LocateTemplate(ctx, "Display")
	if !ok || path != "/themes/default/Display.template.html" {
		t.Fatalf("expected default template, got %q", path)
	}
}
