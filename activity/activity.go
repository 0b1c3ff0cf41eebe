package activity

import (
	"context"

	"github.com/goliatone/go-langtheme/resource"
)

// Action describes a theme option mutation.
type Action string

const (
	ActionSet   Action = "set"
	ActionUnset Action = "unset"
)

// UpdateEvent captures a theme option mutation.
type UpdateEvent struct {
	ThemeID  int
	MemberID int
	Variable string
	Actor    resource.ActorRef
	Action   Action
	Value    *string
}

// Hook receives update events.
type Hook interface {
	OnUpdate(ctx context.Context, event UpdateEvent)
}

// HookFunc wraps a function as a Hook.
type HookFunc func(context.Context, UpdateEvent)

// OnUpdate implements Hook.
func (fn HookFunc) OnUpdate(ctx context.Context, event UpdateEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}

// Hooks fans an event out to every non-nil hook in order.
type Hooks []Hook

// OnUpdate implements Hook.
func (hooks Hooks) OnUpdate(ctx context.Context, event UpdateEvent) {
	for _, hook := range hooks {
		if hook != nil {
			hook.OnUpdate(ctx, event)
		}
	}
}

var _ Hook = Hooks(nil)
