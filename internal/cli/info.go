package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mgpai22/mkvsub/internal/lang"
	"github.com/mgpai22/mkvsub/internal/mediainfo"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [media_file]",
	Short: "Show container and stream information",
	Long: `Probe a media file with ffprobe and print a summary of the
container and its streams. Subtitle streams show the ffmpeg map specifier
the extract --ffmpeg engine would use.

Examples:
  mkvsub info movie.mkv
  mkvsub info movie.mkv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Bool("json", false, "Print the raw probe result as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	info, err := mediainfo.Probe(context.Background(), mediaPath)
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", mediaPath, err)
	}

	if asJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("File:     %s\n", info.Format.Filename)
	fmt.Printf("Format:   %s\n", info.Format.FormatName)
	fmt.Printf("Duration: %s\n", info.Duration().Round(time.Millisecond))
	if info.Format.Size != "" {
		fmt.Printf("Size:     %s bytes\n", info.Format.Size)
	}
	fmt.Println()

	rows := make([][]string, 0, len(info.Streams))
	for _, stream := range info.Streams {
		details := ""
		switch stream.CodecType {
		case "video":
			if stream.Width > 0 {
				details = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
			}
		case "subtitle":
			details = fmt.Sprintf("0:s:%d", info.SubtitleOrdinal(stream.Index))
		}
		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			stream.CodecType,
			stream.CodecName,
			lang.Normalize(stream.Tags.Language),
			stream.Tags.Title,
			details,
		})
	}

	fmt.Println(renderTable(
		os.Stdout,
		[]string{"#", "Type", "Codec", "Lang", "Title", "Details"},
		rows,
	))
	return nil
}
