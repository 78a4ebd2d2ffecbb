package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gifpress/internal/config"
	"gifpress/internal/deps"
	"gifpress/internal/fileutil"
	"gifpress/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <input>",
		Short: "Inspect a video with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("inspect input %q: %w", path, err)
			}

			probeBinary := deps.ResolveFFprobe(cfg.FFmpegBinary(), cfg.FFprobeBinary())
			result, err := ffprobe.Inspect(cmd.Context(), probeBinary, path)
			if err != nil {
				return fmt.Errorf("probe %s: %w", path, err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), json.RawMessage(result.RawJSON()))
			}

			rows := probeRows(result)
			table := renderTable([]string{"Property", "Value"}, rows)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw ffprobe payload as JSON")
	return cmd
}

func probeRows(result ffprobe.Result) [][]string {
	rows := [][]string{
		{"Container", result.Format.FormatName},
		{"Duration", formatProbeDuration(result.DurationSeconds())},
		{"Size", fileutil.FormatBytes(result.SizeBytes())},
		{"Video streams", strconv.Itoa(result.VideoStreamCount())},
		{"Audio streams", strconv.Itoa(result.AudioStreamCount())},
	}
	if stream, ok := result.FirstVideoStream(); ok {
		rows = append(rows,
			[]string{"Codec", stream.CodecName},
			[]string{"Dimensions", fmt.Sprintf("%dx%d", stream.Width, stream.Height)},
			[]string{"Frame rate", formatProbeRate(result.FrameRate())},
		)
	}
	return rows
}

func formatProbeDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	d := time.Duration(seconds * float64(time.Second))
	return d.Truncate(10 * time.Millisecond).String()
}

func formatProbeRate(rate float64) string {
	if rate <= 0 {
		return "unknown"
	}
	value := strconv.FormatFloat(rate, 'f', 3, 64)
	value = strings.TrimRight(value, "0")
	value = strings.TrimRight(value, ".")
	return value + " fps"
}
