package requestlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteWriter_WriteListDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() {
		_ = w.Close()
	})

	now := time.Now().UTC()
	entries := []Entry{
		{
			TraceID:   "trace-1",
			Agent:     "bible",
			SessionID: "sess-1",
			Intent:    IntentVerse,
			CacheHit:  false,
			Events:    6,
			LatencyMS: 1200,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			TraceID:   "trace-2",
			Agent:     "rugpull",
			SessionID: "sess-2",
			Intent:    IntentToken,
			CacheHit:  true,
			Events:    3,
			LatencyMS: 40,
			CreatedAt: now.Add(-1 * time.Hour),
		},
		{
			TraceID:      "trace-3",
			Agent:        "rugpull",
			SessionID:    "sess-3",
			Intent:       IntentError,
			Events:       2,
			LatencyMS:    900,
			ErrorMessage: "solsniffer timeout",
			CreatedAt:    now,
		},
	}

	for _, entry := range entries {
		if err := w.Write(context.Background(), entry); err != nil {
			t.Fatalf("write assist log entry: %v", err)
		}
	}

	result, err := w.List(context.Background(), Query{Limit: 10})
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if result.Total != 3 || len(result.Data) != 3 {
		t.Fatalf("expected 3 logs, total=%d len=%d", result.Total, len(result.Data))
	}
	// Newest first.
	if result.Data[0].TraceID != "trace-3" {
		t.Fatalf("unexpected first trace id: %s", result.Data[0].TraceID)
	}

	byAgent, err := w.List(context.Background(), Query{Limit: 10, Agent: "rugpull"})
	if err != nil {
		t.Fatalf("list filtered logs: %v", err)
	}
	if byAgent.Total != 2 || len(byAgent.Data) != 2 {
		t.Fatalf("expected 2 rugpull logs, total=%d len=%d", byAgent.Total, len(byAgent.Data))
	}

	byIntent, err := w.List(context.Background(), Query{Limit: 10, Agent: "rugpull", Intent: IntentToken})
	if err != nil {
		t.Fatalf("list intent logs: %v", err)
	}
	if byIntent.Total != 1 || byIntent.Data[0].TraceID != "trace-2" {
		t.Fatalf("unexpected intent filter result: %+v", byIntent)
	}
	if !byIntent.Data[0].CacheHit {
		t.Error("expected cache_hit to round-trip as true")
	}

	deleted, err := w.Delete(context.Background(), MaintenanceQuery{Before: ptrTime(now.Add(-30 * time.Minute))})
	if err != nil {
		t.Fatalf("delete logs: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected deleted=2, got %d", deleted)
	}

	remaining, err := w.List(context.Background(), Query{Limit: 10})
	if err != nil {
		t.Fatalf("list remaining logs: %v", err)
	}
	if remaining.Total != 1 || remaining.Data[0].TraceID != "trace-3" {
		t.Fatalf("unexpected remaining logs: %+v", remaining)
	}
}

func TestSQLiteWriter_DefaultsCreatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := w.Write(context.Background(), Entry{Agent: "bible", Intent: IntentChat}); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := w.List(context.Background(), Query{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Data) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Data))
	}
	if result.Data[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped on write")
	}
}

func TestOpen_InfersDialect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.db")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("open sqlite by path: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	if w.dialect != "sqlite" {
		t.Errorf("dialect = %q, want sqlite", w.dialect)
	}
}

func TestPostgresWriterContract(t *testing.T) {
	dsn := os.Getenv("AGENTRY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set AGENTRY_TEST_POSTGRES_DSN to run Postgres assist log integration tests")
	}

	w, err := NewPostgresWriter(dsn)
	if err != nil {
		t.Fatalf("new postgres writer: %v", err)
	}
	t.Cleanup(func() {
		_, _ = w.db.Exec("DELETE FROM assist_logs")
		_ = w.Close()
	})

	_, _ = w.db.Exec("DELETE FROM assist_logs")

	entry := Entry{
		TraceID:   "pg-trace",
		Agent:     "bible",
		SessionID: "sess-pg",
		Intent:    IntentVerse,
		Events:    6,
		LatencyMS: 300,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.Write(context.Background(), entry); err != nil {
		t.Fatalf("write postgres log: %v", err)
	}

	result, err := w.List(context.Background(), Query{Limit: 10, Agent: "bible"})
	if err != nil {
		t.Fatalf("list postgres logs: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Fatalf("expected 1 postgres log, total=%d len=%d", result.Total, len(result.Data))
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
