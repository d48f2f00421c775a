package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/padudon-bit/IndieBook-project/internal/config"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New(&config.Config{})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}

	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", l.Handler())
	}
}

func TestNewHonoursConfiguredLevel(t *testing.T) {
	l := New(&config.Config{LogLevel: "debug"})
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("expected debug level to be enabled")
	}

	l = New(&config.Config{LogLevel: "ERROR"})
	if l.Enabled(context.Background(), slog.LevelWarn) {
		t.Errorf("did not expect warn level to be enabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsEnvironment(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "info", "production")
	l.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry: %v", err)
	}
	if entry["env"] != "production" {
		t.Errorf("expected env attribute, got %v", entry["env"])
	}
	if entry["msg"] != "hello" {
		t.Errorf("expected msg hello, got %v", entry["msg"])
	}
}
