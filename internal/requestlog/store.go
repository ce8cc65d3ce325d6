// Package requestlog persists one audit row per assist request: which
// agent ran, what the query was classified as, whether the cache
// answered, and how the stream ended. The store speaks both SQLite
// (default, file DSN) and Postgres (postgres:// DSN).
package requestlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Entry is one completed assist request.
type Entry struct {
	TraceID      string
	Agent        string
	SessionID    string
	Intent       string
	CacheHit     bool
	Events       int
	LatencyMS    int64
	ErrorMessage string
	CreatedAt    time.Time
}

// Query filters List results.
type Query struct {
	Limit  int
	Offset int
	Agent  string
	Intent string
}

// Result is a page of entries plus the unpaged total.
type Result struct {
	Total int
	Data  []Entry
}

// MaintenanceQuery selects entries for Delete.
type MaintenanceQuery struct {
	Before *time.Time
	Agent  string
}

// Writer persists assist log entries.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// NoopWriter ignores all log writes. Used when no DSN is configured.
type NoopWriter struct{}

func (NoopWriter) Write(_ context.Context, _ Entry) error { return nil }

// SQLWriter persists entries to SQLite or Postgres.
type SQLWriter struct {
	db      *sql.DB
	dialect string
}

// Open picks the dialect from the DSN: postgres:// and postgresql://
// URLs open a Postgres writer, anything else is a SQLite file path.
func Open(dsn string) (*SQLWriter, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresWriter(dsn)
	}
	return NewSQLiteWriter(dsn)
}

func NewSQLiteWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "agentry-requests.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite assist log writer: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "sqlite"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func NewPostgresWriter(dsn string) (*SQLWriter, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres assist log writer: %w", err)
	}
	w := &SQLWriter{db: db, dialect: "postgres"}
	if err := w.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLWriter) init() error {
	if err := w.db.Ping(); err != nil {
		return fmt.Errorf("ping %s assist log writer: %w", w.dialect, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS assist_logs (
	id INTEGER PRIMARY KEY,
	trace_id TEXT,
	agent TEXT NOT NULL,
	session_id TEXT,
	intent TEXT NOT NULL,
	cache_hit BOOLEAN NOT NULL,
	events INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	error_message TEXT,
	created_at TIMESTAMP NOT NULL
);`

	if w.dialect == "postgres" {
		ddl = `
CREATE TABLE IF NOT EXISTS assist_logs (
	id BIGSERIAL PRIMARY KEY,
	trace_id TEXT,
	agent TEXT NOT NULL,
	session_id TEXT,
	intent TEXT NOT NULL,
	cache_hit BOOLEAN NOT NULL,
	events INTEGER NOT NULL,
	latency_ms BIGINT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
);`
	}

	if _, err := w.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize assist log schema: %w", err)
	}
	return nil
}

// Write inserts one entry. A zero CreatedAt is stamped with the current
// time.
func (w *SQLWriter) Write(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO assist_logs(trace_id, agent, session_id, intent, cache_hit, events, latency_ms, error_message, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if w.dialect == "postgres" {
		query = `INSERT INTO assist_logs(trace_id, agent, session_id, intent, cache_hit, events, latency_ms, error_message, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	}

	_, err := w.db.ExecContext(ctx, query,
		entry.TraceID,
		entry.Agent,
		entry.SessionID,
		entry.Intent,
		entry.CacheHit,
		entry.Events,
		entry.LatencyMS,
		entry.ErrorMessage,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("write assist log: %w", err)
	}
	return nil
}

// List returns a page of entries, newest first, plus the total count for
// the same filter.
func (w *SQLWriter) List(ctx context.Context, q Query) (Result, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	var conds []string
	var args []any
	if q.Agent != "" {
		args = append(args, q.Agent)
		conds = append(conds, "agent = "+w.placeholder(len(args)))
	}
	if q.Intent != "" {
		args = append(args, q.Intent)
		conds = append(conds, "intent = "+w.placeholder(len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM assist_logs" + where
	if err := w.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return Result{}, fmt.Errorf("count assist logs: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	dataQuery := fmt.Sprintf(
		"SELECT trace_id, agent, session_id, intent, cache_hit, events, latency_ms, error_message, created_at FROM assist_logs%s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		where, w.placeholder(len(args)-1), w.placeholder(len(args)),
	)
	rows, err := w.db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return Result{}, fmt.Errorf("list assist logs: %w", err)
	}
	defer rows.Close()

	result := Result{Total: total}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.TraceID, &e.Agent, &e.SessionID, &e.Intent, &e.CacheHit, &e.Events, &e.LatencyMS, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return Result{}, fmt.Errorf("scan assist log row: %w", err)
		}
		result.Data = append(result.Data, e)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate assist logs: %w", err)
	}
	return result, nil
}

// Delete removes entries matching the maintenance query and reports how
// many rows went away.
func (w *SQLWriter) Delete(ctx context.Context, q MaintenanceQuery) (int64, error) {
	var conds []string
	var args []any
	if q.Before != nil {
		args = append(args, q.Before.UTC())
		conds = append(conds, "created_at < "+w.placeholder(len(args)))
	}
	if q.Agent != "" {
		args = append(args, q.Agent)
		conds = append(conds, "agent = "+w.placeholder(len(args)))
	}

	query := "DELETE FROM assist_logs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	res, err := w.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete assist logs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted assist logs: %w", err)
	}
	return deleted, nil
}

func (w *SQLWriter) placeholder(n int) string {
	if w.dialect == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (w *SQLWriter) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}
