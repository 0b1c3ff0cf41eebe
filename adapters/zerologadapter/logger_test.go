package zerologadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	out := map[string]any{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return out
}

func TestLoggerWritesKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(zerolog.New(&buf))

	lgr.Warn("langtheme.not_found", "name", "Admin", "variant", "german", "error", errors.New("boom"))

	got := decodeLine(t, &buf)
	if got["level"] != "warn" || got["message"] != "langtheme.not_found" {
		t.Fatalf("unexpected entry %v", got)
	}
	if got["name"] != "Admin" || got["variant"] != "german" || got["error"] != "boom" {
		t.Fatalf("unexpected fields %v", got)
	}
}

func TestLoggerOddArgsAndFields(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(zerolog.New(&buf)).WithFields(map[string]any{"component": "catalog"})

	lgr.Info("scan", "count")

	got := decodeLine(t, &buf)
	if got["component"] != "catalog" || got["arg"] != "count" {
		t.Fatalf("unexpected fields %v", got)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(zerolog.New(&buf).Level(ParseLevel("warn")))

	lgr.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
	if lgr.WithContext(context.Background()) != lgr {
		t.Fatalf("expected WithContext without a context logger to return the same logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
