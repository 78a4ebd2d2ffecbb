package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"gifpress/internal/config"
	"gifpress/internal/services"
)

// Store persists one row per finished conversion in SQLite.
type Store struct {
	db   *sql.DB
	path string
	keep int
}

const (
	sqliteBusyCode   = 5
	busyMaxAttempts  = 5
	busyInitialDelay = 10 * time.Millisecond
	busyMaxDelay     = 200 * time.Millisecond
)

// isBusy reports whether err is SQLite's SQLITE_BUSY, whether exposed
// as a driver error code or already rendered to text.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code() == sqliteBusyCode {
		return true
	}
	text := err.Error()
	return strings.Contains(text, "SQLITE_BUSY") || strings.Contains(text, "database is locked")
}

// retryOnBusy runs op up to busyMaxAttempts times, doubling the wait
// after each busy failure. Other errors return immediately.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyInitialDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !isBusy(err) || attempt == busyMaxAttempts {
			return err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyMaxDelay)
	}
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Open connects to the history database under the configured data
// directory, creating the file and its schema on first use.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "Configuration unavailable", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath, keep: cfg.History.Keep}
	if err := store.applyPragmas(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// applyPragmas must run before any schema statement. WAL plus a driver
// busy timeout covers concurrent gifpress invocations sharing one
// database file.
func (s *Store) applyPragmas() error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the history database.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
