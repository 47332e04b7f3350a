package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tkaster/curio/internal/registry"
)

// JournalRepository appends outcome records to the journal table and reads
// them back in sequence order.
type JournalRepository struct {
	db *sql.DB
}

func newJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append persists a single outcome record and returns its assigned sequence
// number.
func (r *JournalRepository) Append(event registry.Event) (int64, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to encode journal payload: %w", err)
	}

	result, err := r.db.Exec(
		`INSERT INTO journal (event_type, payload, recorded_at) VALUES (?, ?, ?)`,
		string(event.EventType()), string(payload), time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append journal entry: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get journal sequence: %w", err)
	}
	return seq, nil
}

// ListFilter narrows journal reads. Zero values mean no constraint.
type ListFilter struct {
	// EventType restricts results to one record kind.
	EventType registry.EventType
	// AfterSeq returns only entries with a sequence strictly greater.
	AfterSeq int64
	// Limit caps the number of returned entries.
	Limit int
}

// List returns journal entries in ascending sequence order.
func (r *JournalRepository) List(filter ListFilter) ([]JournalEntry, error) {
	query := `SELECT seq, event_type, payload, recorded_at FROM journal WHERE seq > ?`
	args := []any{filter.AfterSeq}

	if filter.EventType != "" {
		query += ` AND event_type = ?`
		args = append(args, string(filter.EventType))
	}
	query += ` ORDER BY seq ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []JournalEntry
	for rows.Next() {
		var (
			entry      JournalEntry
			eventType  string
			payload    string
			recordedAt int64
		)
		if err := rows.Scan(&entry.Seq, &eventType, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entry.EventType = registry.EventType(eventType)
		entry.Payload = []byte(payload)
		entry.RecordedAt = time.Unix(recordedAt, 0)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return entries, nil
}

// LastSeq returns the highest assigned sequence number, or 0 for an empty
// journal.
func (r *JournalRepository) LastSeq() (int64, error) {
	var seq sql.NullInt64
	err := r.db.QueryRow(`SELECT MAX(seq) FROM journal`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to read journal sequence: %w", err)
	}
	return seq.Int64, nil
}
