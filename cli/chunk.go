package cli

import (
	"github.com/spf13/cobra"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/pipeline"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split cleaned text into overlapping chunks",
	RunE:  runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)

	stage := pipeline.NewChunkStage(cfg.CleanDir(), cfg.ChunksDir(), cfg.ChunkSize, cfg.Overlap, logger)

	result, err := stage.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary("Chunking", result)
	return nil
}
