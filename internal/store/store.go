package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"poselabel/internal/config"
)

// Store manages label persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the project database and applies
// migrations. The database lives in the configured project directory and
// is guarded by a sibling lock file; Open fails when another process holds
// the lock.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.ProjectDir, "labels.db")
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire project lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("project database %s is locked by another poselabel process", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Path returns the location of the underlying database file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database connection and releases the project lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}
