package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Result holds the decoded ffprobe report for one media file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Duration     string `json:"duration"`
	BitRate      string `json:"bit_rate"`
}

// Format carries the container-level fields gifpress consumes. ffprobe
// reports numbers as strings; the accessor methods parse them.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect runs ffprobe on path and decodes its JSON report. Stderr is
// kept out of the decoded payload and only surfaces in errors.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	args := []string{
		"-hide_banner",
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"--", path,
	}
	output, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), output...)
	return result, nil
}

// RawJSON returns a copy of the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

func (r Result) streamsOfType(codecType string) []Stream {
	var matched []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			matched = append(matched, stream)
		}
	}
	return matched
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return len(r.streamsOfType("video"))
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return len(r.streamsOfType("audio"))
}

// FirstVideoStream returns the first video stream in container order.
func (r Result) FirstVideoStream() (Stream, bool) {
	videos := r.streamsOfType("video")
	if len(videos) == 0 {
		return Stream{}, false
	}
	return videos[0], true
}

// FrameRate returns the native frame rate of the first video stream in
// frames per second, preferring avg_frame_rate over r_frame_rate. It
// returns 0 when the container carries no parsable rate.
func (r Result) FrameRate() float64 {
	stream, ok := r.FirstVideoStream()
	if !ok {
		return 0
	}
	if rate := parseRational(stream.AvgFrameRate); rate > 0 {
		return rate
	}
	return parseRational(stream.RFrameRate)
}

// Width returns the first video stream's width in pixels, or 0 when absent.
func (r Result) Width() int {
	stream, ok := r.FirstVideoStream()
	if !ok {
		return 0
	}
	return stream.Width
}

// Height returns the first video stream's height in pixels, or 0 when absent.
func (r Result) Height() int {
	stream, ok := r.FirstVideoStream()
	if !ok {
		return 0
	}
	return stream.Height
}

// DurationSeconds returns the container duration in seconds, or 0 when
// missing or unparsable.
func (r Result) DurationSeconds() float64 {
	seconds, ok := parseFloat(r.Format.Duration)
	if !ok || seconds < 0 {
		return 0
	}
	return seconds
}

// SizeBytes returns the reported container size in bytes, or 0 when
// missing or unparsable.
func (r Result) SizeBytes() int64 {
	size, ok := parseFloat(r.Format.Size)
	if !ok || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRate returns the container bitrate in bits per second, or 0 when
// missing or unparsable.
func (r Result) BitRate() int64 {
	rate, ok := parseFloat(r.Format.BitRate)
	if !ok || rate < 0 {
		return 0
	}
	return int64(rate)
}

func parseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// parseRational parses ffprobe rate strings such as "30000/1001" or "25".
func parseRational(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if num, den, found := strings.Cut(cleaned, "/"); found {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil || d == 0 {
			return 0
		}
		return n / d
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil && parsed > 0 {
		return parsed
	}
	return 0
}
