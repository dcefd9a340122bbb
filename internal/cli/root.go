package cli

import (
	"github.com/mgpai22/mkvsub/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "mkvsub",
	Short: "Subtitle toolbox for Matroska and WebM files",
	Long: `Mkvsub reads Matroska/WebM containers and works with the text
subtitle tracks inside them.

It lists tracks, extracts them to SRT/VTT/ASS files, pulls out attached
fonts, streams cues as they arrive, and translates subtitle files with AI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file or directory")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
