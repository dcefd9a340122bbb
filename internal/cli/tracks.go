package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mgpai22/mkvsub/internal/lang"
	"github.com/mgpai22/mkvsub/internal/matroska"
	"github.com/spf13/cobra"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks [mkv_file]",
	Short: "List subtitle tracks in a Matroska file",
	Long: `List the text subtitle tracks declared in a Matroska/WebM file.

Reading stops as soon as the track list has been seen, so this is fast
even on large files.

Examples:
  mkvsub tracks movie.mkv
  mkvsub tracks movie.mkv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTracks,
}

func init() {
	rootCmd.AddCommand(tracksCmd)

	tracksCmd.Flags().Bool("json", false, "Print tracks as JSON")
}

type trackInfo struct {
	Number       uint64 `json:"number"`
	Type         string `json:"type"`
	Language     string `json:"language"`
	LanguageName string `json:"language_name"`
	Name         string `json:"name,omitempty"`
	Compressed   bool   `json:"compressed,omitempty"`
}

func describeTracks(tracks []matroska.Track) []trackInfo {
	infos := make([]trackInfo, len(tracks))
	for i, t := range tracks {
		code := lang.Normalize(t.Language)
		infos[i] = trackInfo{
			Number:       t.Number,
			Type:         t.Type,
			Language:     code,
			LanguageName: lang.DisplayName(code),
			Name:         t.Name,
			Compressed:   t.Compressed,
		}
	}
	return infos
}

func runTracks(cmd *cobra.Command, args []string) error {
	mkvPath := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	file, err := os.Open(mkvPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	parser := matroska.NewParser()
	var tracks []matroska.Track
	seen := false
	parser.OnTracks = func(ts []matroska.Track) {
		tracks = ts
		seen = true
	}

	if err := feedUntil(file, parser, func() bool { return seen }); err != nil {
		return fmt.Errorf("failed to parse %s: %w", mkvPath, err)
	}

	infos := describeTracks(tracks)

	if asJSON {
		out, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(infos) == 0 {
		fmt.Println("No subtitle tracks found.")
		return nil
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		compressed := ""
		if info.Compressed {
			compressed = "zlib"
		}
		rows[i] = []string{
			strconv.FormatUint(info.Number, 10),
			info.Type,
			info.Language,
			info.LanguageName,
			info.Name,
			compressed,
		}
	}

	fmt.Println(renderTable(
		os.Stdout,
		[]string{"#", "Format", "Lang", "Language", "Name", "Compression"},
		rows,
	))
	return nil
}

// feedUntil copies r into w in chunks, stopping early once done reports
// true. Parsers fed this way see the same arbitrary chunk boundaries a
// network read would produce.
func feedUntil(r io.Reader, w io.Writer, done func() bool) error {
	buf := make([]byte, 256<<10)
	for {
		if done != nil && done() {
			return nil
		}
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
