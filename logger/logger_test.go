package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestBasicLoggerWritesArgs(t *testing.T) {
	var buf bytes.Buffer
	lgr := &BasicLogger{Writer: &buf}

	lgr.Warn("langtheme.not_found", "name", "Admin")
	output := buf.String()
	if !strings.Contains(output, "[WARN] langtheme.not_found") {
		t.Fatalf("expected output to contain message, got %q", output)
	}
	if !strings.Contains(output, "name") || !strings.Contains(output, "Admin") {
		t.Fatalf("expected output to include args, got %q", output)
	}
}

func TestBasicLoggerWithFieldsSortsKeys(t *testing.T) {
	var buf bytes.Buffer
	lgr := &BasicLogger{Writer: &buf}
	withFields := lgr.WithFields(map[string]any{
		"variant": "de_DE",
		"name":    "General",
	})

	withFields.Info("langtheme.load")
	output := buf.String()
	if strings.Index(output, "name") > strings.Index(output, "variant") {
		t.Fatalf("expected fields in key order, got %q", output)
	}
}

func TestBasicLoggerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := &BasicLogger{Writer: &buf, MinLevel: LevelWarn}

	lgr.Debug("quiet")
	lgr.Error("loud")
	output := buf.String()
	if strings.Contains(output, "quiet") {
		t.Fatalf("expected debug line to be filtered, got %q", output)
	}
	if !strings.Contains(output, "[ERROR] loud") {
		t.Fatalf("expected error line, got %q", output)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("Debug") != LevelDebug {
		t.Fatalf("expected debug")
	}
	if ParseLevel("bogus") != LevelInfo {
		t.Fatalf("expected info fallback")
	}
}
