package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithFields(ctx, map[string]any{"item_id": "i1"})
	logg.Info(ctx, "borrow.accepted")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", line, err)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("expected request_id to propagate, got %v", entry["request_id"])
	}
	if entry["item_id"] != "i1" {
		t.Fatalf("expected item_id to propagate, got %v", entry["item_id"])
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service name, got %v", entry["service"])
	}
	if entry["message"] != "borrow.accepted" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatalf("unknown level should fall back to info")
	}
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatalf("debug should parse")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("empty level should fall back to info")
	}
}
