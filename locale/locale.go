// Package locale turns lang_locale identifiers from resource files into
// x/text language tags and keeps the collation and message printer for the
// active one.
package locale

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"github.com/goliatone/go-langtheme/logger"
)

// Parse converts a POSIX style locale such as "de_DE.UTF-8" or "sr_RS@latin"
// into a BCP 47 tag.
func Parse(identifier string) (language.Tag, bool) {
	identifier = strings.TrimSpace(identifier)
	if cut, _, found := strings.Cut(identifier, "."); found {
		identifier = cut
	}
	if cut, _, found := strings.Cut(identifier, "@"); found {
		identifier = cut
	}
	if identifier == "" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(identifier, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// NativeName returns the name of the language in that language, or "" when
// x/text has no name for it.
func NativeName(identifier string) string {
	tag, ok := Parse(identifier)
	if !ok {
		return ""
	}
	return display.Self.Name(tag)
}

// Locale holds the collator and printer for the last applied locale.
type Locale struct {
	mu       sync.Mutex
	tag      language.Tag
	applied  string
	collator *collate.Collator
	printer  *message.Printer
	logger   logger.Logger
}

// Option customizes a Locale.
type Option func(*Locale)

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(l *Locale) {
		if l == nil || lgr == nil {
			return
		}
		l.logger = lgr
	}
}

// New returns a Locale initialised to fallback.
func New(fallback language.Tag, options ...Option) *Locale {
	l := &Locale{logger: logger.NopLogger{}}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	l.set(fallback, fallback.String())
	return l
}

func (l *Locale) set(tag language.Tag, applied string) {
	l.tag = tag
	l.applied = applied
	l.collator = collate.New(tag)
	l.printer = message.NewPrinter(tag)
}

// ApplyLocale switches to the first variant that parses. Unparseable input
// keeps the current locale.
func (l *Locale) ApplyLocale(ctx context.Context, variants []string) {
	for _, variant := range variants {
		tag, ok := Parse(variant)
		if !ok {
			continue
		}
		l.mu.Lock()
		l.set(tag, variant)
		l.mu.Unlock()
		l.logger.WithContext(ctx).Debug("langtheme.locale.applied", "variant", variant, "tag", tag.String())
		return
	}
	l.logger.WithContext(ctx).Warn("langtheme.locale.unparseable", "variants", variants)
}

// Tag returns the active tag.
func (l *Locale) Tag() language.Tag {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tag
}

// Applied returns the variant string that selected the active tag.
func (l *Locale) Applied() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applied
}

// Compare orders a and b with the active collation.
func (l *Locale) Compare(a, b string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collator.CompareString(a, b)
}

// Sort sorts values in place with the active collation.
func (l *Locale) Sort(values []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.collator.SortStrings(values)
}

// Sprintf formats with the active printer.
func (l *Locale) Sprintf(format string, args ...any) string {
	l.mu.Lock()
	printer := l.printer
	l.mu.Unlock()
	return printer.Sprintf(format, args...)
}
