package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/pipeline"
	"github.com/saarthi-labs/krishisaarthi/services/knowledge_service"
	"github.com/saarthi-labs/krishisaarthi/services/llm_service"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "Extract one structured scheme JSON per stored document",
	RunE:  runSchemes,
}

func init() {
	rootCmd.AddCommand(schemesCmd)
}

func runSchemes(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)
	ctx := cmd.Context()

	pool, store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()

	embedder := rag_service.NewEmbeddingService(cfg.OpenAIAPIKey, cfg.EmbeddingModel, logger)
	llm := llm_service.NewGroqService(zapLogger)

	builder := knowledge_service.NewSchemeBuilder(
		store, embedder, llm,
		cfg.GroqAPIKey, cfg.LLMModel,
		cfg.SchemesDir(), cfg.RawOutputsDir(),
		logger)

	stage := pipeline.NewSchemesStage(builder, logger)

	result, err := stage.Run(ctx)
	if err != nil {
		return err
	}

	printSummary("Scheme extraction", result)
	return nil
}
