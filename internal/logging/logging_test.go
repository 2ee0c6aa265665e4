package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("component", "engine")).Info(context.Background(), "relocated",
		Vec("to", mgl64.Vec3{1, 2, 3}),
		Float("dt", 0.5),
		Err(errors.New("boom")),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "relocated" || entry["component"] != "engine" || entry["error"] != "boom" {
		t.Fatalf("unexpected entry %v", entry)
	}
	to, ok := entry["to"].([]any)
	if !ok || len(to) != 3 || to[2].(float64) != 3 {
		t.Fatalf("vector field = %#v", entry["to"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter output: %q", buf.String())
	}
}

func TestWithRunLogger(t *testing.T) {
	ctx, l := WithRunLogger(context.Background(), nil)
	id := RunIDFromContext(ctx)
	if id == "" || l == nil {
		t.Fatalf("expected run id and logger, got %q %v", id, l)
	}
	ctx2, id2 := EnsureRunID(ctx)
	if id2 != id || ctx2 != ctx {
		t.Fatalf("EnsureRunID should keep the existing id")
	}
	if LoggerFromContext(ctx) == nil || LoggerFromContext(context.Background()) == nil {
		t.Fatalf("LoggerFromContext must never return nil")
	}
}
