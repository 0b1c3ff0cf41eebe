package zerologadapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-langtheme/logger"
)

// Logger adapts a zerolog.Logger to logger.Logger. Trailing args are read as
// key/value pairs; an odd trailing value is logged under "arg".
type Logger struct {
	zl zerolog.Logger
}

// New wraps an existing zerolog logger.
func New(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

// NewConsole builds a console logger writing to out at the named level.
func NewConsole(out io.Writer, level string) *Logger {
	if out == nil {
		out = os.Stderr
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
		Level(ParseLevel(level)).
		With().Timestamp().Logger()
	return New(zl)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch logger.ParseLevel(name) {
	case logger.LevelTrace:
		return zerolog.TraceLevel
	case logger.LevelDebug:
		return zerolog.DebugLevel
	case logger.LevelWarn:
		return zerolog.WarnLevel
	case logger.LevelError:
		return zerolog.ErrorLevel
	case logger.LevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Zerolog returns the wrapped logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Trace implements logger.Logger.
func (l *Logger) Trace(msg string, args ...any) { l.emit(l.zl.Trace(), msg, args) }

// Debug implements logger.Logger.
func (l *Logger) Debug(msg string, args ...any) { l.emit(l.zl.Debug(), msg, args) }

// Info implements logger.Logger.
func (l *Logger) Info(msg string, args ...any) { l.emit(l.zl.Info(), msg, args) }

// Warn implements logger.Logger.
func (l *Logger) Warn(msg string, args ...any) { l.emit(l.zl.Warn(), msg, args) }

// Error implements logger.Logger.
func (l *Logger) Error(msg string, args ...any) { l.emit(l.zl.Error(), msg, args) }

// Fatal logs at fatal level without exiting the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.emit(l.zl.WithLevel(zerolog.FatalLevel), msg, args)
}

// WithContext implements logger.Logger.
func (l *Logger) WithContext(ctx context.Context) logger.Logger {
	if ctx == nil {
		return l
	}
	if ctxLogger := zerolog.Ctx(ctx); ctxLogger != nil && ctxLogger.GetLevel() != zerolog.Disabled {
		return New(*ctxLogger)
	}
	return l
}

// WithFields implements logger.FieldsLogger.
func (l *Logger) WithFields(fields map[string]any) logger.Logger {
	if len(fields) == 0 {
		return l
	}
	return New(l.zl.With().Fields(fields).Logger())
}

func (l *Logger) emit(event *zerolog.Event, msg string, args []any) {
	if event == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			event = event.Interface("arg", args[i])
			break
		}
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = fmt.Sprint(args[i])
		}
		switch value := args[i+1].(type) {
		case error:
			event = event.AnErr(key, value)
		default:
			event = event.Interface(key, value)
		}
	}
	event.Msg(msg)
}

var _ logger.Logger = (*Logger)(nil)
var _ logger.FieldsLogger = (*Logger)(nil)
