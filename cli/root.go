// Package cli holds the krishisaarthi subcommands, one per pipeline stage.
package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/db"
	"github.com/saarthi-labs/krishisaarthi/logging"
	"github.com/saarthi-labs/krishisaarthi/pipeline"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var rootCmd = &cobra.Command{
	Use:   "krishisaarthi",
	Short: "Ingestion and RAG chatbot pipeline for Indian agricultural scheme documents",
	Long: `krishisaarthi processes government agricultural scheme PDFs into a
retrieval-augmented chatbot: extract, clean, chunk, store, then chat or
serve. Each stage reads a fixed input directory and skips work whose
output already exists, so stages are safe to re-run.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	handler, err := logging.NewDailyFileHandler(cfg.LogDir, &slog.HandlerOptions{Level: slog.LevelInfo})
	if err != nil {
		log.Printf("Warning: falling back to stdout logging: %v", err)
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(handler)
}

// openStore connects to Postgres, applies the schema, and returns the pool
// together with the chunk store. The caller owns the pool.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, *rag_service.ChunkStore, error) {
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(ctx, pool, cfg.EmbeddingDimensions); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pool, rag_service.NewChunkStore(pool, logger), nil
}

func printSummary(stage string, result pipeline.StageResult) {
	fmt.Printf("\n%s done. Processed: %d, Skipped: %d, Failed: %d\n",
		stage, result.Processed, result.Skipped, result.Failed)
}
