package loader

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resource"
)

// Result is the merged outcome of executing an attempt list.
type Result struct {
	Tables     resource.Tables
	Copyright  map[string]string
	Provenance []resource.Provenance
	Found      bool
}

// Loader probes the filesystem for attempts and merges what it finds.
type Loader struct {
	fs     afero.Fs
	codecs *Registry
	logger logger.Logger
}

// Option customizes a Loader.
type Option func(*Loader)

// WithFs sets the filesystem.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) {
		if l == nil || fs == nil {
			return
		}
		l.fs = fs
	}
}

// WithRegistry replaces the codec registry.
func WithRegistry(codecs *Registry) Option {
	return func(l *Loader) {
		if l == nil || codecs == nil {
			return
		}
		l.codecs = codecs
	}
}

// WithExtensions limits probing to the given extensions, in order.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		if l == nil || len(exts) == 0 {
			return
		}
		l.codecs = l.codecs.Restrict(exts)
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(l *Loader) {
		if l == nil || lgr == nil {
			return
		}
		l.logger = lgr
	}
}

// New constructs a Loader on the OS filesystem with the default codecs.
func New(options ...Option) *Loader {
	l := &Loader{
		fs:     afero.NewOsFs(),
		codecs: DefaultRegistry(),
		logger: logger.NopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Fs returns the filesystem the loader reads from.
func (l *Loader) Fs() afero.Fs {
	return l.fs
}

// Extensions returns the probed extensions in order.
func (l *Loader) Extensions() []string {
	return l.codecs.Extensions()
}

// Execute runs attempts in order. Each file found is merged over the previous
// ones; I/O and decode failures are recorded and treated as not found.
func (l *Loader) Execute(ctx context.Context, attempts []resource.Attempt) Result {
	result := newResult(len(attempts))
	for _, attempt := range attempts {
		doc, prov := l.probe(ctx, attempt, func(ext string) string {
			return ModernPath(attempt.Dir, attempt.Variant, attempt.Name, ext)
		})
		result.Provenance = append(result.Provenance, prov)
		if !prov.Found {
			continue
		}
		result.Found = true
		result.Tables.MergeFrom(doc.Tables)
		if doc.Copyright != nil {
			result.Copyright[attempt.Variant] = *doc.Copyright
		}
	}
	return result
}

// ExecuteLegacy probes the flat legacy file name for every attempt whose
// variant has a legacy name, merging with the same rule as Execute.
func (l *Loader) ExecuteLegacy(ctx context.Context, attempts []resource.Attempt) Result {
	result := newResult(len(attempts))
	for _, attempt := range attempts {
		legacy, ok := resource.LegacyNameFor(attempt.Variant)
		if !ok {
			continue
		}
		doc, prov := l.probe(ctx, attempt, func(ext string) string {
			return LegacyPath(attempt.Dir, attempt.Name, legacy, ext)
		})
		prov.Legacy = true
		result.Provenance = append(result.Provenance, prov)
		if !prov.Found {
			continue
		}
		result.Found = true
		result.Tables.MergeFrom(doc.Tables)
	}
	return result
}

// ReadDocument decodes the file at path using the codec for its extension.
func (l *Loader) ReadDocument(path string) (resource.Document, error) {
	codec, ok := l.codecs.Lookup(filepath.Ext(path))
	if !ok {
		return resource.Document{}, ferrors.WrapSentinel(ferrors.ErrDecodeFailed, "no codec for file extension", map[string]any{
			ferrors.MetaPath: path,
		})
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return resource.Document{}, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "resource file read failed", map[string]any{
			ferrors.MetaPath: path,
		})
	}
	raw, err := codec.Decode(data)
	if err != nil {
		return resource.Document{}, decodeError(err, path)
	}
	doc, err := resource.DocumentFromMap(raw)
	if err != nil {
		return resource.Document{}, decodeError(err, path)
	}
	return doc, nil
}

func (l *Loader) probe(ctx context.Context, attempt resource.Attempt, pathFor func(ext string) string) (resource.Document, resource.Provenance) {
	prov := resource.Provenance{Attempt: attempt}
	for _, ext := range l.codecs.Extensions() {
		path := pathFor(ext)
		exists, err := afero.Exists(l.fs, path)
		if err != nil {
			prov.Path = path
			prov.Error = err
			l.logger.WithContext(ctx).Debug("langtheme.loader.probe_failed", "path", path, "error", err)
			continue
		}
		if !exists {
			continue
		}
		prov.Path = path
		doc, err := l.ReadDocument(path)
		if err != nil {
			prov.Error = err
			l.logger.WithContext(ctx).Warn("langtheme.loader.decode_failed", "path", path, "error", err)
			return resource.Document{}, prov
		}
		prov.Error = nil
		prov.Found = true
		return doc, prov
	}
	return resource.Document{}, prov
}

func newResult(capacity int) Result {
	return Result{
		Tables:     resource.NewTables(),
		Copyright:  map[string]string{},
		Provenance: make([]resource.Provenance, 0, capacity),
	}
}

func decodeError(err error, path string) error {
	return ferrors.WrapSentinel(ferrors.ErrDecodeFailed, err.Error(), map[string]any{
		ferrors.MetaPath: path,
	})
}
