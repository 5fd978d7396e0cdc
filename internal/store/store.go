// Package store persists the per-user sent-content cache in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"daily5/internal/core"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database holding sent-content history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if necessary) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "daily5.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sent_content (
		user_email TEXT NOT NULL,
		hash TEXT NOT NULL,
		title TEXT,
		url TEXT,
		sent_at DATETIME NOT NULL,
		PRIMARY KEY (user_email, hash)
	);
	CREATE INDEX IF NOT EXISTS idx_sent_content_sent_at ON sent_content (sent_at);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create sent_content table: %w", err)
	}
	return nil
}

// RecordSent inserts cache entries for a user. Re-recording the same
// hash refreshes its sent timestamp.
func (s *Store) RecordSent(userEmail string, entries []core.CacheEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sent_content (user_email, hash, title, url, sent_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_email, hash) DO UPDATE SET sent_at = excluded.sent_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.Exec(userEmail, entry.Hash, entry.Title, entry.URL, entry.SentAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}
	return tx.Commit()
}

// ListSent returns all cache entries for a user, newest first.
func (s *Store) ListSent(userEmail string) ([]core.CacheEntry, error) {
	rows, err := s.db.Query(`
		SELECT hash, title, url, sent_at FROM sent_content
		WHERE user_email = ? ORDER BY sent_at DESC`, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.CacheEntry
	for rows.Next() {
		var entry core.CacheEntry
		if err := rows.Scan(&entry.Hash, &entry.Title, &entry.URL, &entry.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// HasHash reports whether a hash is recorded for the user.
func (s *Store) HasHash(userEmail, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(1) FROM sent_content WHERE user_email = ? AND hash = ?`,
		userEmail, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check hash: %w", err)
	}
	return count > 0, nil
}

// Prune deletes entries sent before the cutoff, for all users, and
// returns the number removed.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sent_content WHERE sent_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune entries: %w", err)
	}
	return result.RowsAffected()
}

// Stats returns per-user entry counts.
func (s *Store) Stats() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT user_email, COUNT(1) FROM sent_content GROUP BY user_email`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var email string
		var count int
		if err := rows.Scan(&email, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats[email] = count
	}
	return stats, rows.Err()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
