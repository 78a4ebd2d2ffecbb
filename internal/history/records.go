package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record captures the effective parameters and outcome of one conversion.
type Record struct {
	ID            string
	InputPath     string
	OutputPath    string
	Preset        string
	FPS           int
	Width         int
	Colors        int
	Dither        string
	SizeBytes     int64
	SizeCeiling   int64
	Attempts      int
	Adjustments   []string
	Success       bool
	FailureReason string
	Duration      time.Duration
	CreatedAt     time.Time
}

// Add inserts a conversion record and prunes rows beyond the keep limit.
// A missing identifier or timestamp is filled in on the passed record.
func (s *Store) Add(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var adjustments any
	if len(rec.Adjustments) > 0 {
		payload, err := json.Marshal(rec.Adjustments)
		if err != nil {
			return fmt.Errorf("marshal adjustments: %w", err)
		}
		adjustments = string(payload)
	}

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO conversions (
            id, input_path, output_path, preset, fps, width, colors, dither,
            size_bytes, size_ceiling, attempts, adjustments_json, success,
            failure_reason, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.InputPath,
		rec.OutputPath,
		nullableString(rec.Preset),
		rec.FPS,
		rec.Width,
		rec.Colors,
		rec.Dither,
		rec.SizeBytes,
		rec.SizeCeiling,
		rec.Attempts,
		adjustments,
		boolToInt(rec.Success),
		nullableString(rec.FailureReason),
		rec.Duration.Milliseconds(),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return s.prune(ctx)
}

func (s *Store) prune(ctx context.Context) error {
	if s.keep <= 0 {
		return nil
	}
	_, err := s.execWithRetry(
		ctx,
		`DELETE FROM conversions WHERE id NOT IN (
            SELECT id FROM conversions ORDER BY created_at DESC, id DESC LIMIT ?
        )`,
		s.keep,
	)
	if err != nil {
		return fmt.Errorf("prune conversions: %w", err)
	}
	return nil
}

// Recent returns conversions newest first, up to limit rows. A non-positive
// limit returns every retained row.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM conversions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count reports the number of retained conversion rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM conversions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count conversions: %w", err)
	}
	return count, nil
}

// Clear removes all conversion rows.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM conversions`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

const recordColumns = "id, input_path, output_path, preset, fps, width, colors, dither, size_bytes, size_ceiling, attempts, adjustments_json, success, failure_reason, duration_ms, created_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		id            string
		inputPath     string
		outputPath    string
		preset        sql.NullString
		fps           int
		width         int
		colors        int
		dither        string
		sizeBytes     int64
		sizeCeiling   int64
		attempts      int
		adjustments   sql.NullString
		success       int
		failureReason sql.NullString
		durationMS    int64
		createdRaw    string
	)

	if err := scanner.Scan(
		&id, &inputPath, &outputPath, &preset, &fps, &width, &colors, &dither,
		&sizeBytes, &sizeCeiling, &attempts, &adjustments, &success,
		&failureReason, &durationMS, &createdRaw,
	); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:            id,
		InputPath:     inputPath,
		OutputPath:    outputPath,
		Preset:        preset.String,
		FPS:           fps,
		Width:         width,
		Colors:        colors,
		Dither:        dither,
		SizeBytes:     sizeBytes,
		SizeCeiling:   sizeCeiling,
		Attempts:      attempts,
		Success:       success != 0,
		FailureReason: failureReason.String,
		Duration:      time.Duration(durationMS) * time.Millisecond,
	}
	if adjustments.Valid && adjustments.String != "" {
		_ = json.Unmarshal([]byte(adjustments.String), &rec.Adjustments)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		rec.CreatedAt = created
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
