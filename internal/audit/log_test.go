package audit

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLogEventAndRecent(t *testing.T) {
	logger := NewLogger(filepath.Join(t.TempDir(), "audit", "audit.sqlite"))

	if err := logger.LogEvent("u1", TypeTimeBlockCreated, map[string]any{"id": "b1"}); err != nil {
		t.Fatalf("log event: %v", err)
	}
	if err := logger.LogEvent("u2", TypeConflictDetected, map[string]any{"conflicts": 2}); err != nil {
		t.Fatalf("log event: %v", err)
	}
	if err := logger.LogEvent("u1", TypeTaskScheduled, map[string]any{"id": "t1"}); err != nil {
		t.Fatalf("log event: %v", err)
	}

	events, err := logger.Recent(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != TypeTaskScheduled || events[1].Type != TypeTimeBlockCreated {
		t.Fatalf("unexpected order: %#v", events)
	}
	if events[1].PayloadJSON != `{"id":"b1"}` {
		t.Fatalf("payload = %s", events[1].PayloadJSON)
	}

	all, err := logger.Recent(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("limit not applied: %d", len(all))
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var logger *Logger
	if err := logger.LogEvent("u1", TypeGoalCreated, nil); err != nil {
		t.Fatalf("nil logger should discard, got %v", err)
	}
	events, err := (&Logger{}).Recent(context.Background(), "", 5)
	if err != nil || events != nil {
		t.Fatalf("empty logger should return nothing, got %v %v", events, err)
	}
}
