package cli

import (
	"github.com/spf13/cobra"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/pipeline"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Embed chunks and load them into the vector store",
	RunE:  runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)
	ctx := cmd.Context()

	pool, store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	embedder := rag_service.NewEmbeddingService(cfg.OpenAIAPIKey, cfg.EmbeddingModel, logger)
	index := rag_service.NewIndexManager(pool, logger)

	stage := pipeline.NewStoreStage(cfg.ChunksDir(), store, embedder, index, logger)

	result, err := stage.Run(ctx)
	if err != nil {
		return err
	}

	printSummary("Store loading", result)
	return nil
}
