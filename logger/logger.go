package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Logger defines a minimal logging contract compatible with go-logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns named loggers.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger allows attaching structured fields to a logger.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// Level orders log severities.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// BasicLogger writes logs to a writer using fmt.Fprintf.
type BasicLogger struct {
	Writer   io.Writer
	MinLevel Level
	fields   map[string]any
	mu       sync.Mutex
}

// Default returns a usable logger when none is provided.
func Default() Logger {
	return defaultLogger
}

// NewBasicLogger constructs a BasicLogger that logs to stderr by default.
func NewBasicLogger() *BasicLogger {
	return &BasicLogger{
		Writer:   os.Stderr,
		MinLevel: LevelInfo,
	}
}

// WithFields implements FieldsLogger.
func (l *BasicLogger) WithFields(fields map[string]any) Logger {
	if l == nil {
		return &BasicLogger{Writer: os.Stderr, fields: copyFields(fields)}
	}
	if len(fields) == 0 {
		return l
	}
	merged := copyFields(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &BasicLogger{
		Writer:   l.Writer,
		MinLevel: l.MinLevel,
		fields:   merged,
	}
}

// WithContext implements Logger.
func (l *BasicLogger) WithContext(context.Context) Logger {
	return l
}

// Trace implements Logger.
func (l *BasicLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args...) }

// Debug implements Logger.
func (l *BasicLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info implements Logger.
func (l *BasicLogger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn implements Logger.
func (l *BasicLogger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error implements Logger.
func (l *BasicLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Fatal implements Logger.
func (l *BasicLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args...) }

func (l *BasicLogger) log(level Level, msg string, args ...any) {
	if l == nil || level < l.MinLevel {
		return
	}
	out := l.Writer
	if out == nil {
		out = os.Stderr
	}
	combined := append(fieldsToArgs(l.fields), args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(combined) == 0 {
		fmt.Fprintf(out, "[%s] %s\n", level, msg)
		return
	}
	fmt.Fprintf(out, "[%s] %s %v\n", level, msg, combined)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Trace(string, ...any)               {}
func (NopLogger) Debug(string, ...any)               {}
func (NopLogger) Info(string, ...any)                {}
func (NopLogger) Warn(string, ...any)                {}
func (NopLogger) Error(string, ...any)               {}
func (NopLogger) Fatal(string, ...any)               {}
func (n NopLogger) WithContext(context.Context) Logger { return n }

func copyFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return out
}

func fieldsToArgs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

var defaultLogger Logger = NewBasicLogger()

var _ Logger = (*BasicLogger)(nil)
var _ FieldsLogger = (*BasicLogger)(nil)
var _ Logger = NopLogger{}
