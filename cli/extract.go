package cli

import (
	"github.com/spf13/cobra"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/pipeline"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text from PDFs in new_pdfs/",
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)

	extractor := rag_service.NewDocumentExtractor(logger)
	stage := pipeline.NewExtractStage(extractor, cfg.InputDir(), cfg.ExtractedDir(), logger)

	result, err := stage.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary("Extraction", result)
	return nil
}
