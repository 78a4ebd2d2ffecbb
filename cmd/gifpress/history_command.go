package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gifpress/internal/fileutil"
	"gifpress/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), historyPayload(records))
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					filepath.Base(rec.InputPath),
					fileutil.FormatBytes(rec.SizeBytes),
					rec.Preset,
					strconv.Itoa(rec.Attempts),
					historyStatus(rec),
				})
			}
			table := renderTable(
				[]string{"When", "Input", "Size", "Preset", "Attempts", "Status"},
				rows,
				2, 4,
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of records to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print history records as JSON")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d history records\n", removed)
			return nil
		},
	}
}

func historyStatus(rec history.Record) string {
	if rec.Success {
		return "ok"
	}
	if rec.SizeBytes > 0 && rec.SizeCeiling > 0 && rec.SizeBytes > rec.SizeCeiling {
		return "over ceiling"
	}
	return "failed"
}

type historyRecordJSON struct {
	ID            string    `json:"id"`
	InputPath     string    `json:"input_path"`
	OutputPath    string    `json:"output_path"`
	Preset        string    `json:"preset"`
	FPS           int       `json:"fps"`
	Width         int       `json:"width"`
	Colors        int       `json:"colors"`
	Dither        string    `json:"dither"`
	SizeBytes     int64     `json:"size_bytes"`
	SizeCeiling   int64     `json:"size_ceiling,omitempty"`
	Attempts      int       `json:"attempts"`
	Adjustments   []string  `json:"adjustments,omitempty"`
	Success       bool      `json:"success"`
	FailureReason string    `json:"failure_reason,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

func historyPayload(records []history.Record) []historyRecordJSON {
	payload := make([]historyRecordJSON, 0, len(records))
	for _, rec := range records {
		payload = append(payload, historyRecordJSON{
			ID:            rec.ID,
			InputPath:     rec.InputPath,
			OutputPath:    rec.OutputPath,
			Preset:        rec.Preset,
			FPS:           rec.FPS,
			Width:         rec.Width,
			Colors:        rec.Colors,
			Dither:        rec.Dither,
			SizeBytes:     rec.SizeBytes,
			SizeCeiling:   rec.SizeCeiling,
			Attempts:      rec.Attempts,
			Adjustments:   rec.Adjustments,
			Success:       rec.Success,
			FailureReason: rec.FailureReason,
			DurationMS:    rec.Duration.Milliseconds(),
			CreatedAt:     rec.CreatedAt,
		})
	}
	return payload
}
