package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/mkvsub/internal/ffmpeg"
)

// holds options for subtitle stream extraction
type ExtractSubtitleOptions struct {
	StreamOrdinal int    // Nth subtitle stream, ffmpeg's 0:s:N numbering
	Codec         string // output subtitle codec (srt, webvtt, ass); empty lets ffmpeg pick
}

// defines interface for ffmpeg backed extraction
type Processor interface {
	ExtractSubtitle(
		ctx context.Context,
		videoPath, outputPath string,
		opts ExtractSubtitleOptions,
	) error
}

// default implementation using ffmpeg
type DefaultProcessor struct{}

func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{}
}

// extracts one subtitle stream from a video file
func (p *DefaultProcessor) ExtractSubtitle(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractSubtitleOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if opts.StreamOrdinal < 0 {
		return fmt.Errorf(
			"stream ordinal must be non-negative, got %d",
			opts.StreamOrdinal,
		)
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", opts.StreamOrdinal),
		"vn":  "", // No video
		"an":  "", // No audio
		"y":   "", // Overwrite output
	}
	if opts.Codec != "" {
		kwargs["c:s"] = opts.Codec
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return nil
}

// ffmpeg subtitle codec for an output extension; empty means stream copy
func CodecForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".srt":
		return "srt"
	case ".vtt":
		return "webvtt"
	case ".ass", ".ssa":
		return "ass"
	default:
		return ""
	}
}
