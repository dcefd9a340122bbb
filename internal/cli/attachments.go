package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/mkvsub/internal/config"
	"github.com/mgpai22/mkvsub/internal/matroska"
	"github.com/spf13/cobra"
)

var attachmentsCmd = &cobra.Command{
	Use:   "attachments [mkv_file]",
	Short: "Extract attached files from a Matroska file",
	Long: `Extract the files attached to a Matroska/WebM container, typically
the fonts referenced by ASS subtitle tracks.

Files are written to the output directory (default: current directory).
A name that already exists on disk gets a numeric suffix instead of being
overwritten.

Examples:
  mkvsub attachments movie.mkv
  mkvsub attachments movie.mkv -o fonts/`,
	Args: cobra.ExactArgs(1),
	RunE: runAttachments,
}

func init() {
	rootCmd.AddCommand(attachmentsCmd)
}

func runAttachments(cmd *cobra.Command, args []string) error {
	mkvPath := args[0]
	outputDir, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}
	if outputDir == "" {
		outputDir = "."
	}

	file, err := os.Open(mkvPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	var writeErr error

	parser := matroska.NewParser()
	parser.OnAttachment = func(att matroska.Attachment) {
		if writeErr != nil {
			return
		}
		name := attachmentFileName(att.Filename, count)
		outPath := uniquePath(filepath.Join(outputDir, name))
		if err := os.WriteFile(outPath, att.Data, 0644); err != nil {
			writeErr = fmt.Errorf("failed to write %s: %w", name, err)
			return
		}
		logger.Infow("Wrote attachment",
			"file", outPath,
			"mimetype", att.Mimetype,
			"size", len(att.Data),
		)
		fmt.Printf("Extracted %s (%s, %d bytes)\n", outPath, att.Mimetype, len(att.Data))
		count++
	}

	if _, err := io.Copy(parser, file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", mkvPath, err)
	}
	if writeErr != nil {
		return writeErr
	}

	if count == 0 {
		fmt.Println("No attachments found.")
	}
	return nil
}

// attachmentFileName flattens a container-supplied name to a bare file
// name. Container data is untrusted; path separators must not escape the
// output directory.
func attachmentFileName(name string, ordinal int) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return fmt.Sprintf("attachment-%d", ordinal)
	}
	return name
}

// uniquePath returns path unchanged, or with a numeric suffix before the
// extension when a file already exists there.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
