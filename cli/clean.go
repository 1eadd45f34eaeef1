package cli

import (
	"github.com/spf13/cobra"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize extracted text into clean_text/",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)

	stage := pipeline.NewCleanStage(cfg.ExtractedDir(), cfg.CleanDir(), logger)

	result, err := stage.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary("Cleaning", result)
	return nil
}
