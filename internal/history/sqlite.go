// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/refcheck/pkg/types"
)

// DBFile is the history database filename inside the data directory.
const DBFile = "history.db"

// SQLiteStore is a Repository backed by a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// OpenSQLite opens or creates dataDir/history.db and its schema.
func OpenSQLite(dataDir string, limit int) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if limit <= 0 {
		limit = types.DefaultHistoryLimit
	}
	s := &SQLiteStore{db: db, limit: limit}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		refs TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Load returns the stored entries, newest first.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, refs, created_at FROM history ORDER BY id DESC LIMIT ?`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var (
			e         types.HistoryEntry
			runID     sql.NullString
			refsJSON  string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &runID, &refsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if err := json.Unmarshal([]byte(refsJSON), &e.References); err != nil {
			return nil, fmt.Errorf("decoding history entry %d: %w", e.ID, err)
		}
		e.RunID = runID.String
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append adds entry as the newest. An identical reference sequence
// already stored is replaced, and rows beyond the limit are deleted.
func (s *SQLiteStore) Append(ctx context.Context, entry types.HistoryEntry) error {
	refsJSON, err := json.Marshal(entry.References)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE refs = ?`, string(refsJSON)); err != nil {
		return fmt.Errorf("removing duplicate entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (run_id, refs, created_at) VALUES (?, ?, ?)`,
		entry.RunID, string(refsJSON), createdAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`, s.limit,
	); err != nil {
		return fmt.Errorf("evicting old entries: %w", err)
	}

	return tx.Commit()
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
