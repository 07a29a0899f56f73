package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS mutation_log (
  id          INTEGER PRIMARY KEY,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  slot        TEXT NOT NULL,
  endpoint    TEXT NOT NULL,
  request_id  TEXT,
  success     INTEGER NOT NULL CHECK (success IN (0,1)),
  message     TEXT
);
CREATE INDEX IF NOT EXISTS idx_mutation_time ON mutation_log(occurred_at);
CREATE INDEX IF NOT EXISTS idx_mutation_slot ON mutation_log(slot, occurred_at);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// GetValue returns the value stored under key. ok is false when the key is absent.
func (d *DB) GetValue(ctx context.Context, key string) (value string, ok bool, err error) {
	err = d.sql.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetValue stores value under key, replacing any previous value.
func (d *DB) SetValue(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	return err
}

// DeleteValue removes key. Deleting a missing key is not an error.
func (d *DB) DeleteValue(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// LogMutation appends m to the mutation log. A zero OccurredAt means now.
func (d *DB) LogMutation(ctx context.Context, m Mutation) error {
	at := m.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := d.sql.ExecContext(ctx, `INSERT INTO mutation_log(occurred_at, slot, endpoint, request_id, success, message) VALUES(?,?,?,?,?,?)`,
		at.UTC().Format(timeLayout), m.Slot, m.Endpoint, nullIfEmpty(m.RequestID), boolToInt(m.Success), nullIfEmpty(m.Message))
	return err
}

// ListRecentMutations returns the most recent N mutations, newest first.
func (d *DB) ListRecentMutations(ctx context.Context, limit int) ([]Mutation, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, slot, endpoint, request_id, success, message FROM mutation_log ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mutations := []Mutation{}
	for rows.Next() {
		var m Mutation
		var occurredAtStr string
		var successInt int
		var reqNS, msgNS sql.NullString
		if err := rows.Scan(&occurredAtStr, &m.Slot, &m.Endpoint, &reqNS, &successInt, &msgNS); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format
		// Try "2006-01-02 15:04:05" then RFC3339
		if t, perr := time.Parse(timeLayout, occurredAtStr); perr == nil {
			m.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			m.OccurredAt = t2
		}
		m.RequestID = reqNS.String
		m.Message = msgNS.String
		m.Success = successInt == 1
		mutations = append(mutations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mutations, nil
}

// GetStats counts logged mutations per slot.
func (d *DB) GetStats(ctx context.Context) ([]SlotStats, error) {
	query := `
		SELECT
			slot,
			COUNT(*),
			COALESCE(SUM(success), 0)
		FROM
			mutation_log
		GROUP BY
			slot
		ORDER BY
			slot;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SlotStats
	for rows.Next() {
		var s SlotStats
		if err := rows.Scan(&s.Slot, &s.Total, &s.Succeeded); err != nil {
			return nil, err
		}
		s.Failed = s.Total - s.Succeeded
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
