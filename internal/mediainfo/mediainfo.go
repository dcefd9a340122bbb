package mediainfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	ffmpegbin "github.com/mgpai22/mkvsub/internal/ffmpeg"
)

// decoded ffprobe output for one media file
type Info struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type Stream struct {
	Index     int        `json:"index"`
	CodecName string     `json:"codec_name"`
	CodecType string     `json:"codec_type"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Tags      StreamTags `json:"tags"`
}

type StreamTags struct {
	Language string `json:"language"`
	Title    string `json:"title"`
}

// Probe runs ffprobe against the file and decodes its JSON output.
func Probe(ctx context.Context, path string) (*Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return decodeProbeOutput(out.Bytes())
}

func decodeProbeOutput(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &info, nil
}

// container duration; zero when ffprobe reported none
func (i *Info) Duration() time.Duration {
	seconds, err := strconv.ParseFloat(i.Format.Duration, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// subtitle streams in container order
func (i *Info) SubtitleStreams() []Stream {
	var subs []Stream
	for _, s := range i.Streams {
		if s.CodecType == "subtitle" {
			subs = append(subs, s)
		}
	}
	return subs
}

// SubtitleOrdinal maps a container stream index onto ffmpeg's 0:s:N
// numbering. Returns -1 when the index is not a subtitle stream.
func (i *Info) SubtitleOrdinal(streamIndex int) int {
	ordinal := 0
	for _, s := range i.Streams {
		if s.CodecType != "subtitle" {
			continue
		}
		if s.Index == streamIndex {
			return ordinal
		}
		ordinal++
	}
	return -1
}
