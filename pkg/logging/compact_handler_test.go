package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func handleRecord(t *testing.T, r slog.Record) string {
	t.Helper()
	var b strings.Builder
	h := NewCompactHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug})
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	return b.String()
}

func TestCompactHandlerFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 14, 30, 5, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "graph transform complete", 0)
	r.AddAttrs(slog.Int("targets", 42), slog.String("configuration", "Debug"))

	out := handleRecord(t, r)

	if !strings.HasPrefix(out, "[INFO]  14:30:05 graph transform complete") {
		t.Errorf("Unexpected prefix: %q", out)
	}
	if !strings.Contains(out, "| targets=42 configuration=Debug") {
		t.Errorf("Expected attributes after separator, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("Expected trailing newline, got %q", out)
	}
}

func TestCompactHandlerShortensRequestID(t *testing.T) {
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "request", 0)
	r.AddAttrs(slog.String("requestID", "4c2b9a13-77f1-45f2-8c01-aaaabbbbcccc"))

	out := handleRecord(t, r)

	if !strings.Contains(out, "req=4c2b9a13") {
		t.Errorf("Expected shortened request id, got %q", out)
	}
	if strings.Contains(out, "aaaabbbbcccc") {
		t.Errorf("Expected tail of request id dropped, got %q", out)
	}
}

func TestCompactHandlerQuotesValuesWithSpaces(t *testing.T) {
	r := slog.NewRecord(time.Now(), slog.LevelWarn, "note", 0)
	r.AddAttrs(slog.String("message", "needs quoting here"))

	out := handleRecord(t, r)

	if !strings.Contains(out, `message="needs quoting here"`) {
		t.Errorf("Expected quoted value, got %q", out)
	}
}

func TestCompactHandlerLevelFilter(t *testing.T) {
	h := NewCompactHandler(&strings.Builder{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug suppressed at info level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected error enabled at info level")
	}
}
