package testsupport

import (
	"context"
	"testing"

	"gifpress/internal/config"
	"gifpress/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddRecord inserts a conversion record for tests using the provided store.
func AddRecord(t testing.TB, store *history.Store, rec *history.Record) *history.Record {
	t.Helper()

	if err := store.Add(context.Background(), rec); err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return rec
}
