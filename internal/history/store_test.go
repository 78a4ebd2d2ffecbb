package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gifpress/internal/history"
	"gifpress/internal/testsupport"
)

func sampleRecord(n int) *history.Record {
	return &history.Record{
		InputPath:   fmt.Sprintf("/videos/clip-%d.mp4", n),
		OutputPath:  fmt.Sprintf("/videos/clip-%d.gif", n),
		Preset:      "medium",
		FPS:         15,
		Width:       720,
		Colors:      256,
		Dither:      "bayer",
		SizeBytes:   900_000,
		SizeCeiling: 1_000_000,
		Attempts:    2,
		Adjustments: []string{"reduced fps 20→14"},
		Success:     true,
		Duration:    1500 * time.Millisecond,
	}
}

func TestAddAssignsIdentifiers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	rec := sampleRecord(1)
	testsupport.AddRecord(t, store, rec)
	if rec.ID == "" {
		t.Fatal("expected an identifier to be assigned")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp to be assigned")
	}
}

func TestRecentRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	rec := sampleRecord(1)
	rec.FailureReason = ""
	testsupport.AddRecord(t, store, rec)

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	got := records[0]
	if got.ID != rec.ID {
		t.Errorf("id mismatch: got %q, want %q", got.ID, rec.ID)
	}
	if got.InputPath != rec.InputPath || got.OutputPath != rec.OutputPath {
		t.Errorf("path mismatch: %#v", got)
	}
	if got.Preset != "medium" || got.FPS != 15 || got.Width != 720 || got.Colors != 256 || got.Dither != "bayer" {
		t.Errorf("parameter mismatch: %#v", got)
	}
	if got.SizeBytes != 900_000 || got.SizeCeiling != 1_000_000 || got.Attempts != 2 {
		t.Errorf("size/attempt mismatch: %#v", got)
	}
	if len(got.Adjustments) != 1 || got.Adjustments[0] != "reduced fps 20→14" {
		t.Errorf("adjustments mismatch: %#v", got.Adjustments)
	}
	if !got.Success || got.FailureReason != "" {
		t.Errorf("outcome mismatch: %#v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("duration mismatch: %v", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected a parsed creation timestamp")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := sampleRecord(i)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		testsupport.AddRecord(t, store, rec)
	}

	records, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected the limit to apply, got %d records", len(records))
	}
	if records[0].InputPath != "/videos/clip-2.mp4" || records[1].InputPath != "/videos/clip-1.mp4" {
		t.Fatalf("unexpected ordering: %q then %q", records[0].InputPath, records[1].InputPath)
	}
}

func TestAddPrunesBeyondKeepLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistoryKeep(3))
	store := testsupport.MustOpenHistory(t, cfg)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := sampleRecord(i)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		testsupport.AddRecord(t, store, rec)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected pruning down to 3 rows, got %d", count)
	}

	records, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 retained records, got %d", len(records))
	}
	// The oldest two inserts must be the ones pruned.
	for _, rec := range records {
		if rec.InputPath == "/videos/clip-0.mp4" || rec.InputPath == "/videos/clip-1.mp4" {
			t.Fatalf("expected oldest rows pruned, found %q", rec.InputPath)
		}
	}
}

func TestClearRemovesEverything(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	for i := 0; i < 4; i++ {
		testsupport.AddRecord(t, store, sampleRecord(i))
	}

	removed, err := store.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 4 {
		t.Fatalf("expected 4 rows removed, got %d", removed)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store, got %d rows", count)
	}
}

func TestFailureOutcomePersists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	rec := sampleRecord(1)
	rec.Success = false
	rec.FailureReason = "output is 3.91 MiB over the 976.56 KiB ceiling after 5 attempts"
	rec.Attempts = 5
	testsupport.AddRecord(t, store, rec)

	records, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	got := records[0]
	if got.Success {
		t.Fatal("expected a failed outcome to persist")
	}
	if got.FailureReason != rec.FailureReason {
		t.Fatalf("failure reason mismatch: %q", got.FailureReason)
	}
}

func TestOpenWithoutConfigFails(t *testing.T) {
	if _, err := history.Open(nil); err == nil {
		t.Fatal("expected nil config to fail")
	}
}

func TestReopenKeepsRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	if err := store.Add(context.Background(), sampleRecord(1)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	count, err := reopened.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the row to survive reopen, got %d", count)
	}
}

func TestEmptyAdjustmentsStayNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	rec := sampleRecord(1)
	rec.Adjustments = nil
	rec.Attempts = 1
	testsupport.AddRecord(t, store, rec)

	records, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].Adjustments != nil {
		t.Fatalf("expected nil adjustments, got %#v", records[0].Adjustments)
	}
}
