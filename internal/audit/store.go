// Package audit persists one record per redaction run: aggregate counts
// and confidence statistics only, never document content or matched text,
// so the store can exist without persisting anything sensitive.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	shroudotel "github.com/shroud-io/shroud/internal/otel"
	"github.com/shroud-io/shroud/internal/redact"
)

var tracer = shroudotel.Tracer("github.com/shroud-io/shroud/internal/audit")

// Record is the audit entry for a single redaction run.
type Record struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Operation  string         `json:"operation"` // "analyze" or "redact"
	TextLength int            `json:"text_length"`
	Summary    redact.Summary `json:"summary"`
}

// Store persists audit records in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the audit database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS audit (
		id TEXT PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		operation TEXT NOT NULL,
		text_length INTEGER NOT NULL,
		total_matches INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit(timestamp);
	`

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("creating audit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append writes a new audit record for a run and returns it.
func (s *Store) Append(ctx context.Context, operation string, textLength int, summary redact.Summary) (*Record, error) {
	ctx, span := tracer.Start(ctx, "audit.append",
		trace.WithAttributes(attribute.String("audit.operation", operation)))
	defer span.End()

	rec := &Record{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Operation:  operation,
		TextLength: textLength,
		Summary:    summary,
	}

	summaryJSON, err := json.Marshal(rec.Summary)
	if err != nil {
		return nil, fmt.Errorf("marshalling summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit (id, timestamp, operation, text_length, total_matches, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.Operation, rec.TextLength, rec.Summary.Total, string(summaryJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting audit record: %w", err)
	}

	span.SetAttributes(attribute.String("audit.id", rec.ID))
	return rec, nil
}

// List returns the most recent records, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "audit.list")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, operation, text_length, summary_json
		 FROM audit ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var summaryJSON string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Operation, &rec.TextLength, &summaryJSON); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			return nil, fmt.Errorf("unmarshalling summary for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
