package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/tkaster/curio/internal/registry"
)

// SnapshotRepository stores a point-in-time copy of all collectibles. The
// owner collections and total count are derivable from the collectible rows,
// so only those rows are stored; restore rebuilds the rest.
type SnapshotRepository struct {
	db *sql.DB
}

func newSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save replaces the stored snapshot with the given collectibles in one
// transaction. A reader never observes a half-written snapshot.
func (r *SnapshotRepository) Save(collectibles []registry.Collectible) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM snapshot_collectibles`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for _, c := range collectibles {
		m := toCollectibleModel(c)
		_, err := tx.Exec(
			`INSERT INTO snapshot_collectibles (id, owner, price, attribute) VALUES (?, ?, ?, ?)`,
			m.ID, m.Owner, m.Price, m.Attribute,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot row: %w", err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO snapshot_meta (key, value) VALUES ('saved_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.FormatInt(time.Now().Unix(), 10),
	)
	if err != nil {
		return fmt.Errorf("failed to record snapshot time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load returns all collectibles from the stored snapshot. An empty database
// yields an empty slice, not an error.
func (r *SnapshotRepository) Load() ([]registry.Collectible, error) {
	rows, err := r.db.Query(`SELECT id, owner, price, attribute FROM snapshot_collectibles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var collectibles []registry.Collectible
	for rows.Next() {
		var m collectibleModel
		if err := rows.Scan(&m.ID, &m.Owner, &m.Price, &m.Attribute); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		c, err := m.toDomain()
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot row %s: %w", m.ID, err)
		}
		collectibles = append(collectibles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return collectibles, nil
}

// SavedAt returns the time of the last snapshot save, or the zero time if no
// snapshot has been taken.
func (r *SnapshotRepository) SavedAt() (time.Time, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM snapshot_meta WHERE key = 'saved_at'`).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot time: %w", err)
	}
	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt snapshot time %q: %w", value, err)
	}
	return time.Unix(unix, 0), nil
}
