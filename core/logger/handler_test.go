package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, format logFormat) (*slog.Logger, func() string) {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	read := func() string {
		if err := aw.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		return strings.TrimSpace(buf.String())
	}
	return slog.New(handler), read
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	log, read := newTestLogger(t, formatKV)
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	LogEvent(ctx, log.With("component", "fsm"), slog.LevelInfo, "step.advanced",
		slog.String("status", "OK"),
		slog.String("step", "region"),
	)

	line := read()
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=fsm", "event=step.advanced", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
	if !strings.Contains(line, "user_id=7") || !strings.Contains(line, "chat_id=9") {
		t.Fatalf("context metadata missing: %s", line)
	}
}

func TestStructuredHandlerJSONCompactRID(t *testing.T) {
	log, read := newTestLogger(t, formatJSON)
	rawRID := "12:34:56"
	ctx := WithSession(WithRID(context.Background(), rawRID), "sess-1")

	LogEvent(ctx, log.With("component", "submission"), slog.LevelError, "save.failed",
		slog.String("status", "fail"),
		slog.Duration("duration", 1500*time.Microsecond),
	)

	line := read()
	if !strings.HasPrefix(line, `{"ts":`) {
		t.Fatalf("expected JSON, got %s", line)
	}
	for _, want := range []string{
		`"level":"ERROR"`,
		`"rid":"` + CompactRID(rawRID) + `"`,
		`"rid_full":"` + rawRID + `"`,
		`"session_id":"sess-1"`,
		`"duration_ms":2`,
		`"ts_unix_nano"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %s", want, line)
		}
	}
}

func TestStructuredHandlerDropsUnknownOutcome(t *testing.T) {
	log, read := newTestLogger(t, formatKV)
	LogEvent(context.Background(), log, slog.LevelInfo, "x",
		slog.String("outcome", "weird"),
		slog.String("empty", ""),
	)
	line := read()
	if strings.Contains(line, "outcome=") || strings.Contains(line, "empty=") {
		t.Fatalf("expected outcome and empty field pruned: %s", line)
	}
	if !strings.Contains(line, "component=app") {
		t.Fatalf("expected default component: %s", line)
	}
}

func TestStructuredHandlerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{level: slog.LevelWarn, writer: aw, format: formatKV}))
	log.Info("hidden")
	log.Warn("shown")
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "event=shown") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("ab\x00c\u200bd", 3); got != "abc" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("Иванов", 10); got != "Иванов" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
}
