package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mgpai22/mkvsub/internal/matroska"
	"github.com/spf13/cobra"
)

var streamCmd = &cobra.Command{
	Use:   "stream [mkv_file|-]",
	Short: "Stream subtitle events as NDJSON",
	Long: `Decode a Matroska/WebM byte stream and print one JSON event per
line as track lists, subtitle cues, and attached files are seen.

Reading from "-" consumes stdin, so a live or partial stream can be piped
in. Malformed chunks are logged and skipped instead of stopping the feed.

With --seek the file is read from the start just long enough to learn the
track list, then reading jumps to the byte offset and locks onto the next
cluster boundary, the way a player resumes after a seek.

Examples:
  mkvsub stream movie.mkv
  curl -s https://example.com/live.webm | mkvsub stream -
  mkvsub stream movie.mkv --seek 100000000`,
	Args: cobra.ExactArgs(1),
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)

	streamCmd.Flags().
		Int64("seek", -1, "Byte offset to resume from once the track list is known")
}

type tracksEvent struct {
	Event  string      `json:"event"`
	Tracks []trackInfo `json:"tracks"`
}

type cueEvent struct {
	Event      string   `json:"event"`
	Track      uint64   `json:"track"`
	TimeMs     float64  `json:"time_ms"`
	DurationMs *float64 `json:"duration_ms,omitempty"`
	Text       string   `json:"text"`
	Content    string   `json:"content"`

	Layer string `json:"layer,omitempty"`
	Style string `json:"style,omitempty"`
	Name  string `json:"name,omitempty"`
}

type fileEvent struct {
	Event    string `json:"event"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int    `json:"size"`
}

// newCueEvent flattens a cue for NDJSON. A missing BlockDuration surfaces
// as an absent duration_ms key; NaN is not representable in JSON.
func newCueEvent(cue matroska.Cue, track uint64) cueEvent {
	event := cueEvent{
		Event:   "subtitle",
		Track:   track,
		TimeMs:  cue.Time,
		Text:    cue.Text,
		Content: cue.Content,
		Layer:   cue.Layer,
		Style:   cue.Style,
		Name:    cue.Name,
	}
	if !math.IsNaN(cue.Duration) {
		duration := cue.Duration
		event.DurationMs = &duration
	}
	return event
}

func attachStreamEvents(p *matroska.Parser, enc *json.Encoder) {
	p.OnTracks = func(tracks []matroska.Track) {
		_ = enc.Encode(tracksEvent{Event: "tracks", Tracks: describeTracks(tracks)})
	}
	p.OnSubtitle = func(cue matroska.Cue, track uint64) {
		_ = enc.Encode(newCueEvent(cue, track))
	}
	p.OnAttachment = func(att matroska.Attachment) {
		_ = enc.Encode(fileEvent{
			Event:    "file",
			Filename: att.Filename,
			Mimetype: att.Mimetype,
			Size:     len(att.Data),
		})
	}
}

func runStream(cmd *cobra.Command, args []string) error {
	source := args[0]
	seek, _ := cmd.Flags().GetInt64("seek")

	enc := json.NewEncoder(os.Stdout)

	if source == "-" {
		if seek >= 0 {
			return fmt.Errorf("--seek requires a seekable file, not stdin")
		}
		return streamFrom(os.Stdin, enc)
	}

	file, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if seek < 0 {
		return streamFrom(file, enc)
	}
	return streamAfterSeek(file, seek, enc)
}

func streamFrom(r io.Reader, enc *json.Encoder) error {
	s := matroska.NewStream()
	s.SetLogger(logger.SugaredLogger)
	attachStreamEvents(s.Parser, enc)

	if _, err := io.Copy(s, r); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return s.Close()
}

func streamAfterSeek(file *os.File, offset int64, enc *json.Encoder) error {
	head := matroska.NewStream()
	head.SetLogger(logger.SugaredLogger)
	attachStreamEvents(head.Parser, enc)

	emitTracks := head.OnTracks
	seen := false
	head.OnTracks = func(tracks []matroska.Track) {
		emitTracks(tracks)
		seen = true
	}

	if err := feedUntil(file, head, func() bool { return seen }); err != nil {
		return fmt.Errorf("failed to read track list: %w", err)
	}
	if !seen {
		return fmt.Errorf("no subtitle track list found before EOF")
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d failed: %w", offset, err)
	}
	logger.Debugw("Resuming after seek", "offset", offset)

	s := matroska.NewStreamFrom(head)
	attachStreamEvents(s.Parser, enc)

	if _, err := io.Copy(s, file); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return s.Close()
}
