package gologgeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-langtheme/activity"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
)

// Hook logs load and theme update events using go-logger.
type Hook struct {
	logger        glog.Logger
	loadLevel     string
	missLevel     string
	updateLevel   string
	loadMessage   string
	updateMessage string
}

// Option customizes the logger hook.
type Option func(*Hook)

// New builds a logging hook for load/update events.
func New(logger glog.Logger, opts ...Option) *Hook {
	hook := &Hook{
		logger:        logger,
		loadLevel:     "debug",
		missLevel:     "warn",
		updateLevel:   "info",
		loadMessage:   "langtheme.load",
		updateMessage: "langtheme.theme_update",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	return hook
}

// WithLoadLevel sets the log level for successful load events.
func WithLoadLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.loadLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithMissLevel sets the log level for loads that found nothing.
func WithMissLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.missLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithUpdateLevel sets the log level for update events.
func WithUpdateLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithLoadMessage overrides the load log message.
func WithLoadMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.loadMessage = message
	}
}

// WithUpdateMessage overrides the update log message.
func WithUpdateMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateMessage = message
	}
}

// OnLoad implements resource.LoadHook.
func (h *Hook) OnLoad(ctx context.Context, event resource.LoadEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"resource_name":    event.Name,
		"resource_variant": event.Variant,
		"resource_found":   event.Found,
		"resource_legacy":  event.Trace.LegacyFound,
		"resource_cached":  event.Trace.AlreadyLoaded,
		"resource_files":   event.Trace.Files(),
	}
	if event.Trace.Locale != "" {
		fields["resource_locale"] = event.Trace.Locale
	}
	level := h.loadLevel
	if event.Error != nil {
		fields["resource_error"] = event.Error.Error()
		level = h.missLevel
	} else if !event.Found && !event.Trace.AlreadyLoaded {
		level = h.missLevel
	}
	h.log(ctx, level, h.loadMessage, fields)
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		scope.MetadataThemeID:  event.ThemeID,
		scope.MetadataMemberID: event.MemberID,
		"theme_variable":       event.Variable,
		"theme_action":         event.Action,
		"actor_id":             event.Actor.ID,
		"actor_type":           event.Actor.Type,
		"actor_name":           event.Actor.Name,
	}
	if event.Value != nil {
		fields["theme_value"] = *event.Value
	}
	h.log(ctx, h.updateLevel, h.updateMessage, fields)
}

func (h *Hook) log(ctx context.Context, level string, message string, fields map[string]any) {
	logger := h.logger
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(glog.FieldsLogger); ok && len(fields) > 0 {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "trace":
		logger.Trace(message)
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error", "fatal":
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

var _ resource.LoadHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
