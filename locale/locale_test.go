package locale

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goliatone/go-langtheme/resolver"
	"golang.org/x/text/language"
)

var _ resolver.LocaleHook = (*Locale)(nil)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "de_DE.UTF-8", want: "de-DE", ok: true},
		{in: "en_US", want: "en-US", ok: true},
		{in: "sr_RS@latin", want: "sr-RS", ok: true},
		{in: "ar_001", want: "ar-001", ok: true},
		{in: "", ok: false},
		{in: "not a locale", ok: false},
	}
	for _, tc := range cases {
		tag, ok := Parse(tc.in)
		if ok != tc.ok {
			t.Fatalf("Parse(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && tag.String() != tc.want {
			t.Fatalf("Parse(%q) = %s, want %s", tc.in, tag, tc.want)
		}
	}
}

func TestApplyLocaleUsesFirstParseableVariant(t *testing.T) {
	l := New(language.AmericanEnglish)
	l.ApplyLocale(context.Background(), []string{"!!", "sv_SE.UTF-8", "sv_SE"})

	if got := l.Tag().String(); got != "sv-SE" {
		t.Fatalf("expected sv-SE, got %s", got)
	}
	if got := l.Applied(); got != "sv_SE.UTF-8" {
		t.Fatalf("expected applied variant, got %s", got)
	}

	l.ApplyLocale(context.Background(), []string{"??"})
	if got := l.Tag().String(); got != "sv-SE" {
		t.Fatalf("expected locale kept on bad input, got %s", got)
	}
}

func TestSortUsesCollation(t *testing.T) {
	l := New(language.AmericanEnglish)
	l.ApplyLocale(context.Background(), []string{"sv_SE"})
	values := []string{"ö", "z", "a"}
	l.Sort(values)
	if diff := cmp.Diff([]string{"a", "z", "ö"}, values); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	l.ApplyLocale(context.Background(), []string{"de_DE"})
	values = []string{"z", "ö", "a"}
	l.Sort(values)
	if diff := cmp.Diff([]string{"a", "ö", "z"}, values); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if l.Compare("a", "b") >= 0 {
		t.Fatalf("expected a before b")
	}
}

func TestSprintfUsesPrinter(t *testing.T) {
	l := New(language.AmericanEnglish)
	if got := l.Sprintf("%d", 1234567); got != "1,234,567" {
		t.Fatalf("unexpected en output %q", got)
	}
	l.ApplyLocale(context.Background(), []string{"de_DE"})
	if got := l.Sprintf("%d", 1234567); got != "1.234.567" {
		t.Fatalf("unexpected de output %q", got)
	}
}

func TestNativeName(t *testing.T) {
	if got := NativeName("de_DE"); got == "" {
		t.Fatalf("expected a native name for de_DE")
	}
	if got := NativeName(""); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
