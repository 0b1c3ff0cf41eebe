package gologgeradapter

import (
	"context"
	"sort"

	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-langtheme/logger"
)

// bridge exposes a langtheme logger as a go-logger glog.Logger.
type bridge struct {
	lgr    logger.Logger
	fields []any
}

// FromLogger adapts lgr so it can back a Hook.
func FromLogger(lgr logger.Logger) glog.Logger {
	if lgr == nil {
		lgr = logger.NopLogger{}
	}
	return &bridge{lgr: lgr}
}

func (b *bridge) args(args []any) []any {
	if len(b.fields) == 0 {
		return args
	}
	return append(append([]any{}, b.fields...), args...)
}

func (b *bridge) Trace(msg string, args ...any) { b.lgr.Trace(msg, b.args(args)...) }
func (b *bridge) Debug(msg string, args ...any) { b.lgr.Debug(msg, b.args(args)...) }
func (b *bridge) Info(msg string, args ...any)  { b.lgr.Info(msg, b.args(args)...) }
func (b *bridge) Warn(msg string, args ...any)  { b.lgr.Warn(msg, b.args(args)...) }
func (b *bridge) Error(msg string, args ...any) { b.lgr.Error(msg, b.args(args)...) }
func (b *bridge) Fatal(msg string, args ...any) { b.lgr.Fatal(msg, b.args(args)...) }

func (b *bridge) WithContext(ctx context.Context) glog.Logger {
	return &bridge{lgr: b.lgr.WithContext(ctx), fields: b.fields}
}

// WithFields prefers the wrapped logger's own field support and otherwise
// carries the fields as key/value args.
func (b *bridge) WithFields(fields map[string]any) glog.Logger {
	if fl, ok := b.lgr.(logger.FieldsLogger); ok {
		return &bridge{lgr: fl.WithFields(fields), fields: b.fields}
	}
	next := append([]any{}, b.fields...)
	for _, key := range sortedKeys(fields) {
		next = append(next, key, fields[key])
	}
	return &bridge{lgr: b.lgr, fields: next}
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var _ glog.Logger = (*bridge)(nil)
var _ glog.FieldsLogger = (*bridge)(nil)
