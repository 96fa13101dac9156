package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orglens/orglens/internal/db"
)

// Store provides run-log operations backed by SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new run entry. If entry.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	detail := entry.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshalling run detail: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO run_log (id, action, scope, summary, detail)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Action),
		entry.Scope,
		entry.Summary,
		string(detailJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run entry: %w", err)
	}
	return nil
}

// Recent returns the most recent run entries, newest first. If action is
// non-empty only entries for that action are returned.
func (s *Store) Recent(ctx context.Context, action Action, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 20
	}

	query := `SELECT id, timestamp, action, scope, summary, detail FROM run_log`
	args := []any{}
	if action != "" {
		query += ` WHERE action = ?`
		args = append(args, string(action))
	}
	query += ` ORDER BY timestamp DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying run log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, action, detailJSON string
		if err := rows.Scan(&e.ID, &ts, &action, &e.Scope, &e.Summary, &detailJSON); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}
		e.Action = Action(action)
		if t, err := time.Parse("2006-01-02 15:04:05", ts); err == nil {
			e.Timestamp = t
		}
		if err := json.Unmarshal([]byte(detailJSON), &e.Detail); err != nil {
			return nil, fmt.Errorf("parsing run detail: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
