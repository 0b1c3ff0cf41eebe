package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const testConfig = `
languages_dir: /forum/languages
log_level: error
themes:
  "1":
    theme_dir: /forum/Themes/default
  "2":
    theme_dir: /forum/Themes/dark
`

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/etc/langtheme.yaml":                                 testConfig,
		"/forum/languages/en_US/General.yaml":                 "txt:\n  native_name: English (US)\n  hello: Hello\n  bye: Goodbye\n",
		"/forum/Themes/default/languages/en_US/Admin.yaml":    "txt:\n  admin: Admin\n",
		"/forum/Themes/dark/languages/de_DE/General.yaml":     "txt:\n  native_name: Deutsch\n  hello: Hallo\n",
		"/forum/Themes/dark/Index.template.html":              "<html></html>",
		"/forum/Themes/default/Display.template.html":         "<html></html>",
	}
	for path, body := range files {
		if err := afero.WriteFile(fs, path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs
}

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	root := newRootCommandWithFs(fs)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", "/etc/langtheme.yaml"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range []string{"resolve", "languages", "template", "theme"} {
		if !names[name] {
			t.Fatalf("missing subcommand %q", name)
		}
	}
	if root.Version != "dev" {
		t.Fatalf("expected dev version, got %q", root.Version)
	}
}

func TestResolveCommandMergesThemeVariant(t *testing.T) {
	out, err := run(t, testFs(t), "--theme", "2", "resolve", "General", "--variant", "de_DE", "--key", "hello", "--key", "bye")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"General\tde_DE", "hello = Hallo", "bye = Goodbye"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestResolveCommandTracePrintsFiles(t *testing.T) {
	out, err := run(t, testFs(t), "--theme", "2", "resolve", "General", "--variant", "de_DE", "--trace")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"chain:", "/forum/languages", "files:", "de_DE/General (dark)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestResolveCommandMissingResource(t *testing.T) {
	fs := testFs(t)
	_, err := run(t, fs, "resolve", "Missing")
	if err == nil {
		t.Fatalf("expected missing resource error")
	}
	if code := exitCodeForError(err); code != 3 {
		t.Fatalf("expected exit code 3, got %d (%v)", code, err)
	}

	if _, err := run(t, fs, "resolve", "Missing", "--alt", "General"); err != nil {
		t.Fatalf("expected alternate to satisfy the load, got %v", err)
	}
	if _, err := run(t, fs, "resolve", "Missing", "--non-fatal"); err != nil {
		t.Fatalf("expected non-fatal load to pass, got %v", err)
	}
}

func TestResolveCommandCompositeName(t *testing.T) {
	out, err := run(t, testFs(t), "resolve", "General+Admin", "--key", "hello", "--key", "admin")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"General+Admin\ten_US", "hello = Hello", "admin = Admin"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestResolveCommandPrintsLoadedAlternate(t *testing.T) {
	out, err := run(t, testFs(t), "resolve", "Missing", "--alt", "General")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "General\ten_US") {
		t.Fatalf("expected alternate line in output:\n%s", out)
	}
	if strings.Contains(out, "Missing\t") {
		t.Fatalf("did not expect the missing name in output:\n%s", out)
	}
}

func TestLanguagesCommandListsPacks(t *testing.T) {
	out, err := run(t, testFs(t), "--theme", "2", "--language", "de_DE", "languages")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	for _, want := range []string{"* de_DE\tDeutsch", "  en_US\tEnglish (US)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTemplateCommandLocatesAcrossThemes(t *testing.T) {
	fs := testFs(t)
	out, err := run(t, fs, "--theme", "2", "template", "Display")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if strings.TrimSpace(out) != "/forum/Themes/default/Display.template.html" {
		t.Fatalf("unexpected template path %q", out)
	}
	if _, err := run(t, fs, "--theme", "2", "template", "Nowhere"); exitCodeForError(err) != 3 {
		t.Fatalf("expected not-found exit code, got %v", err)
	}
}

func TestThemeShowAndSet(t *testing.T) {
	fs := testFs(t)
	out, err := run(t, fs, "--theme", "2", "theme", "show")
	if err != nil {
		t.Fatalf("theme show: %v", err)
	}
	for _, want := range []string{"theme 2 member -1", "theme_dir = /forum/Themes/dark", "default_theme_dir = /forum/Themes/default"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if _, err := run(t, fs, "--theme", "2", "--member", "5", "theme", "set", "theme_dir", "/tmp"); err == nil {
		t.Fatalf("expected reserved variable to be rejected for members")
	}
	if _, err := run(t, fs, "--theme", "2", "--member", "5", "theme", "set", "show_avatars", "1"); err != nil {
		t.Fatalf("theme set: %v", err)
	}
}
