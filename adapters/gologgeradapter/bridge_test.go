package gologgeradapter

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-langtheme/activity"
	"github.com/goliatone/go-langtheme/logger"
	"github.com/goliatone/go-langtheme/resource"
)

type argsLogger struct {
	logger.NopLogger
	level string
	msg   string
	args  []any
}

func (a *argsLogger) Info(msg string, args ...any) {
	a.level, a.msg, a.args = "info", msg, args
}

func (a *argsLogger) WithContext(context.Context) logger.Logger { return a }

func TestBridgeFlattensFieldsWithoutFieldSupport(t *testing.T) {
	plain := &argsLogger{}
	hook := New(FromLogger(plain))
	value := "blue"
	hook.OnUpdate(context.Background(), activity.UpdateEvent{
		ThemeID:  2,
		MemberID: 7,
		Variable: "color",
		Value:    &value,
		Action:   activity.ActionSet,
		Actor:    resource.ActorRef{ID: "7"},
	})

	if plain.level != "info" || plain.msg != "langtheme.theme_update" {
		t.Fatalf("unexpected entry %s %q", plain.level, plain.msg)
	}
	got := map[any]any{}
	for i := 0; i+1 < len(plain.args); i += 2 {
		got[plain.args[i]] = plain.args[i+1]
	}
	want := map[any]any{
		"actor_id":       "7",
		"actor_name":     "",
		"actor_type":     "",
		"member_id":      7,
		"theme_action":   activity.ActionSet,
		"theme_id":       2,
		"theme_value":    "blue",
		"theme_variable": "color",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}

func TestFromLoggerNil(t *testing.T) {
	lgr := FromLogger(nil)
	lgr.WithContext(context.Background()).Info("ignored")
}
