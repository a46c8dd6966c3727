// File path: internal/common/log_test.go
package common

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoggerCapturesHistory(t *testing.T) {
	logger := Logger()
	logger.Info("test: captured entry", "run_id", "run-1")

	entries := LogEntries()
	if len(entries) == 0 {
		t.Fatalf("expected captured log entries")
	}
	found := false
	for _, entry := range entries {
		if entry.Message == "test: captured entry" {
			found = true
			if entry.Level != "info" {
				t.Fatalf("level: %q", entry.Level)
			}
			if entry.Attributes["run_id"] != "run-1" {
				t.Fatalf("attributes: %v", entry.Attributes)
			}
			if entry.Time.IsZero() {
				t.Fatalf("entry time not set")
			}
		}
	}
	if !found {
		t.Fatalf("captured entry not found in history")
	}
}

func TestLogSinkBoundedHistory(t *testing.T) {
	sink := newLogSink(3)
	for i := 0; i < 5; i++ {
		sink.capture(slog.NewRecord(time.Now(), slog.LevelInfo, "entry", 0))
	}
	if got := len(sink.entries()); got != 3 {
		t.Fatalf("history should be bounded at 3, got %d", got)
	}
}
