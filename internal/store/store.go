package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/store/migrations"
)

// stateKey is the fixed storage identifier for the single workplace blob.
const stateKey = "workplace"

// Store persists the workplace state as one JSON blob in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations, and returns a
// ready store.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: there is exactly one writer and SQLite does not
	// take kindly to concurrent ones.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logging.Infof("workplace store initialized at %s", path)
	return &Store{db: db}, nil
}

// LoadState returns the persisted blob, or nil when nothing was saved yet.
func (s *Store) LoadState(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM workplace_state WHERE key = ?`, stateKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SaveState replaces the persisted blob.
func (s *Store) SaveState(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workplace_state (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		stateKey, data, time.Now().Unix())
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
