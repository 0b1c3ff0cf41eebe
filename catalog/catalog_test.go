package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/resource"
)

type stubThemes struct {
	dirs      resource.ThemeDirs
	essential resource.ThemeDirs
	calls     int
}

func (s *stubThemes) ThemeDirs(context.Context) (resource.ThemeDirs, bool) {
	return s.dirs, s.dirs.Loaded()
}

func (s *stubThemes) LoadEssential(context.Context) error {
	s.calls++
	s.dirs = s.essential
	return nil
}

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, body := range files {
		if err := afero.WriteFile(fs, path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs
}

func TestScannerFindsLanguagesAcrossDirectories(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/langs/en_US/General.yaml":                    "txt:\n  native_name: English (US)\n",
		"/langs/de_DE/General.toml":                    "[txt]\nnative_name = \"Deutsch\"\n",
		"/langs/fr_FR/Admin.yaml":                      "txt: {}\n",
		"/langs/notes.txt":                             "not a language",
		"/themes/default/languages/pt_BR/General.yaml": "txt:\n  native_name: \"Portugu&ecirc;s\"\n",
		"/themes/custom/languages/es_ES/General.yaml":  "txt:\n  native_name: English (US)\n",
	})
	themes := &stubThemes{essential: resource.ThemeDirs{ThemeDir: "/themes/custom", DefaultThemeDir: "/themes/default"}}
	scanner := NewScanner(WithFs(fs), WithLanguagesDir("/langs"), WithThemeSource(themes))

	got, err := scanner.Languages(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if themes.calls != 1 {
		t.Fatalf("expected essential theme load, got %d calls", themes.calls)
	}
	want := []Language{
		{ID: "de_DE", Name: "Deutsch", Dir: "/langs", Location: "/langs/de_DE/General.toml"},
		{ID: "en_US", Name: "English (US)", Dir: "/langs", Location: "/langs/en_US/General.yaml"},
		{ID: "es_ES", Name: "es_ES", Dir: "/themes/custom/languages", Location: "/themes/custom/languages/es_ES/General.yaml"},
		{ID: "pt_BR", Name: "Português", Dir: "/themes/default/languages", Location: "/themes/default/languages/pt_BR/General.yaml"},
	}
	if diff := cmp.Diff(want, got.List()); diff != "" {
		t.Fatalf("unexpected languages (-want +got):\n%s", diff)
	}
	if _, ok := got.Get("fr_FR"); ok {
		t.Fatalf("expected directory without index file to be skipped")
	}
}

func TestScannerDirsOrder(t *testing.T) {
	themes := &stubThemes{dirs: resource.ThemeDirs{
		ThemeDir:        "/themes/custom",
		BaseThemeDir:    "/themes/base",
		DefaultThemeDir: "/themes/default",
	}}
	scanner := NewScanner(WithFs(afero.NewMemMapFs()), WithLanguagesDir("/langs"), WithThemeSource(themes))
	want := []string{"/langs", "/themes/default/languages", "/themes/custom/languages", "/themes/base/languages"}
	if diff := cmp.Diff(want, scanner.Dirs(context.Background())); diff != "" {
		t.Fatalf("unexpected dirs (-want +got):\n%s", diff)
	}
}

func TestScannerUsesCacheUnlessBypassed(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/langs/en_US/General.yaml": "txt:\n  native_name: English (US)\n",
	})
	layer := cache.New(cache.WithBackend(cache.NewMemoryBackend()))
	scanner := NewScanner(WithFs(fs), WithLanguagesDir("/langs"), WithCache(layer))
	ctx := context.Background()

	if _, err := scanner.Languages(ctx, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := afero.WriteFile(fs, "/langs/de_DE/General.yaml", []byte("txt:\n  native_name: Deutsch\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cached, err := scanner.Languages(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cached.List()) != 1 {
		t.Fatalf("expected cached list, got %+v", cached.List())
	}

	fresh, err := scanner.Languages(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh.List()) != 2 {
		t.Fatalf("expected rescanned list, got %+v", fresh.List())
	}
	again, _ := scanner.Languages(ctx, true)
	if len(again.List()) != 2 {
		t.Fatalf("expected refreshed cache, got %+v", again.List())
	}
}

func TestScannerNameFallback(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/langs/it_IT/General.yaml": "txt: {}\n",
	})
	scanner := NewScanner(WithFs(fs), WithLanguagesDir("/langs"), WithNameFallback(func(id string) string {
		return "name:" + id
	}))
	got, err := scanner.Languages(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lang, ok := got.Get("it_IT")
	if !ok || lang.Name != "name:it_IT" {
		t.Fatalf("expected fallback name, got %+v", lang)
	}
}

func TestStaticCatalogSelect(t *testing.T) {
	catalog := NewStatic(Language{ID: "en_US"}, Language{ID: " de_DE ", Name: "Deutsch"}, Language{ID: ""})
	selected := catalog.Select("de_DE")
	want := []Language{
		{ID: "de_DE", Name: "Deutsch", Selected: true},
		{ID: "en_US", Name: "en_US"},
	}
	if diff := cmp.Diff(want, selected.List()); diff != "" {
		t.Fatalf("unexpected catalog (-want +got):\n%s", diff)
	}
}
