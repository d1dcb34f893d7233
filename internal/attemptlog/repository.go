// Package attemptlog persists a local history of provisioning
// attempts, so capacity hunting across many scheduled invocations can
// be reviewed after the fact.
package attemptlog

import (
	"database/sql"
	"fmt"
	"time"

	"ocicap/internal/database"
)

// Repository defines the persistence interface for attempt entries.
type Repository interface {
	Save(entry *Entry) error
	List(limit int) ([]Entry, error)
	ListByOutcome(outcome string, limit int) ([]Entry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite
// database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the attempt repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("attemptlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("attemptlog: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS attempt_log (
            id                  INTEGER PRIMARY KEY AUTOINCREMENT,
            attempt_id          TEXT    NOT NULL,
            timestamp           TEXT    NOT NULL,
            shape               TEXT    NOT NULL,
            availability_domain TEXT    NOT NULL DEFAULT '',
            outcome             TEXT    NOT NULL,
            instance_id         TEXT    NOT NULL DEFAULT '',
            reason              TEXT    NOT NULL DEFAULT '',
            duration_ms         INTEGER NOT NULL DEFAULT 0
        );
        CREATE INDEX IF NOT EXISTS idx_attempt_log_timestamp ON attempt_log(timestamp);
        CREATE INDEX IF NOT EXISTS idx_attempt_log_outcome ON attempt_log(outcome);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("attemptlog: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new attempt entry.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO attempt_log (attempt_id, timestamp, shape, availability_domain, outcome, instance_id, reason, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.AttemptID, entry.Timestamp.Format(time.RFC3339Nano), entry.Shape,
		entry.AvailabilityDomain, entry.Outcome, entry.InstanceID, entry.Reason, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("attemptlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("attemptlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the most recent n attempt entries.
func (r *SQLiteRepository) List(limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, attempt_id, timestamp, shape, availability_domain, outcome, instance_id, reason, duration_ms
        FROM attempt_log ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("attemptlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByOutcome returns the most recent n entries with the given
// outcome kind.
func (r *SQLiteRepository) ListByOutcome(outcome string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, attempt_id, timestamp, shape, availability_domain, outcome, instance_id, reason, duration_ms
        FROM attempt_log WHERE outcome = ? ORDER BY timestamp DESC LIMIT ?`, outcome, limit)
	if err != nil {
		return nil, fmt.Errorf("attemptlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM attempt_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("attemptlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestampStr string
		err := rows.Scan(
			&entry.ID, &entry.AttemptID, &timestampStr, &entry.Shape,
			&entry.AvailabilityDomain, &entry.Outcome, &entry.InstanceID,
			&entry.Reason, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("attemptlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
