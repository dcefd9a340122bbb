package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgpai22/mkvsub/internal/config"
	"github.com/mgpai22/mkvsub/internal/lang"
	"github.com/mgpai22/mkvsub/internal/matroska"
	"github.com/mgpai22/mkvsub/internal/mediainfo"
	"github.com/mgpai22/mkvsub/internal/subtitle"
	"github.com/mgpai22/mkvsub/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [mkv_file]",
	Short: "Extract subtitle tracks from a Matroska file",
	Long: `Extract the text subtitle tracks from a Matroska/WebM file into
standalone subtitle files.

The native engine decodes the container directly and writes one file per
track, named <base>.<track>.<lang>.<ext>. The extension follows the track
codec: SRT for plain text, VTT for WebVTT, ASS/SSA for scripts.

With --ffmpeg the extraction runs through ffmpeg instead, using ffprobe
stream indexes rather than Matroska track numbers.

Examples:
  mkvsub extract movie.mkv
  mkvsub extract movie.mkv --tracks 2,3 -o subs/
  mkvsub extract movie.mkv --ffmpeg`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("tracks", "t", "", "Comma-separated track numbers to extract (default: all)")
	extractCmd.Flags().
		Bool("ffmpeg", false, "Extract with ffmpeg instead of the native engine")
}

func runExtract(cmd *cobra.Command, args []string) error {
	mkvPath := args[0]

	trackSpec, _ := cmd.Flags().GetString("tracks")
	useFFmpeg, _ := cmd.Flags().GetBool("ffmpeg")
	outputDir, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	filter, err := parseTrackFilter(trackSpec)
	if err != nil {
		return err
	}

	if _, err := os.Stat(mkvPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mkvPath)
	}

	logger.Infow("Extracting subtitles",
		"input", mkvPath,
		"output_dir", outputDir,
		"tracks", trackSpec,
		"engine", engineName(useFFmpeg),
	)

	if useFFmpeg {
		return extractWithFFmpeg(context.Background(), mkvPath, outputDir, filter)
	}
	return extractNative(mkvPath, outputDir, filter)
}

func engineName(useFFmpeg bool) string {
	if useFFmpeg {
		return "ffmpeg"
	}
	return "native"
}

// parseTrackFilter parses a comma-separated list of track numbers. A nil
// map means no filter.
func parseTrackFilter(spec string) (map[uint64]bool, error) {
	filter := map[uint64]bool{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		number, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid track number %q", part)
		}
		filter[number] = true
	}
	if len(filter) == 0 {
		return nil, nil
	}
	return filter, nil
}

// subtitleOutputPath names an extracted track file <base>.<n>.<lang><ext>
// next to the source unless an output directory is given.
func subtitleOutputPath(mkvPath, outputDir string, number uint64, langCode, ext string) string {
	base := strings.TrimSuffix(filepath.Base(mkvPath), filepath.Ext(mkvPath))
	if langCode == "" {
		langCode = "und"
	}
	if outputDir == "" {
		outputDir = filepath.Dir(mkvPath)
	}
	name := fmt.Sprintf("%s.%d.%s%s", base, number, langCode, ext)
	return filepath.Join(outputDir, name)
}

func extractNative(mkvPath, outputDir string, filter map[uint64]bool) error {
	file, err := os.Open(mkvPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	parser := matroska.NewParser()
	var tracks []matroska.Track
	cues := map[uint64][]matroska.Cue{}

	parser.OnTracks = func(ts []matroska.Track) {
		tracks = ts
	}
	parser.OnSubtitle = func(cue matroska.Cue, number uint64) {
		if filter != nil && !filter[number] {
			return
		}
		cues[number] = append(cues[number], cue)
	}

	if _, err := io.Copy(parser, file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", mkvPath, err)
	}

	if len(tracks) == 0 {
		return fmt.Errorf("no subtitle tracks found in %s", mkvPath)
	}

	written := 0
	for _, track := range tracks {
		if filter != nil && !filter[track.Number] {
			continue
		}

		document := subtitle.Assemble(track, cues[track.Number])
		outPath := subtitleOutputPath(
			mkvPath,
			outputDir,
			track.Number,
			lang.Normalize(track.Language),
			subtitle.ExtensionForTrack(track.Type),
		)

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(document), 0644); err != nil {
			return fmt.Errorf("failed to write track %d: %w", track.Number, err)
		}

		logger.Infow("Wrote subtitle track",
			"track", track.Number,
			"cues", len(cues[track.Number]),
			"file", outPath,
		)

		absOutput, _ := filepath.Abs(outPath)
		fmt.Printf("Extracted track %d: %s (%d cues)\n",
			track.Number, absOutput, len(cues[track.Number]))
		written++
	}

	if written == 0 {
		return fmt.Errorf("no tracks matched the filter")
	}
	return nil
}

func extractWithFFmpeg(ctx context.Context, mkvPath, outputDir string, filter map[uint64]bool) error {
	info, err := mediainfo.Probe(ctx, mkvPath)
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", mkvPath, err)
	}

	streams := info.SubtitleStreams()
	if len(streams) == 0 {
		return fmt.Errorf("no subtitle streams found in %s", mkvPath)
	}

	processor := video.NewProcessor()
	written := 0
	for _, stream := range streams {
		if filter != nil && !filter[uint64(stream.Index)] {
			continue
		}

		ext := extensionForCodec(stream.CodecName)
		outPath := subtitleOutputPath(
			mkvPath,
			outputDir,
			uint64(stream.Index),
			lang.Normalize(stream.Tags.Language),
			ext,
		)

		opts := video.ExtractSubtitleOptions{
			StreamOrdinal: info.SubtitleOrdinal(stream.Index),
			Codec:         video.CodecForExtension(ext),
		}
		if err := processor.ExtractSubtitle(ctx, mkvPath, outPath, opts); err != nil {
			return fmt.Errorf("stream %d: %w", stream.Index, err)
		}

		logger.Infow("Wrote subtitle stream",
			"stream", stream.Index,
			"codec", stream.CodecName,
			"file", outPath,
		)

		absOutput, _ := filepath.Abs(outPath)
		fmt.Printf("Extracted stream %d: %s\n", stream.Index, absOutput)
		written++
	}

	if written == 0 {
		return fmt.Errorf("no streams matched the filter")
	}
	return nil
}

// extensionForCodec maps an ffprobe codec name to an output extension for
// the ffmpeg engine.
func extensionForCodec(codec string) string {
	switch strings.ToLower(codec) {
	case "subrip", "srt":
		return ".srt"
	case "ass":
		return ".ass"
	case "ssa":
		return ".ssa"
	case "webvtt":
		return ".vtt"
	default:
		return ".srt"
	}
}
