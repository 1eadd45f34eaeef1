package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pgvector/pgvector-go"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

// ChunkWriter is the store surface the loading stage needs: an existence
// check by chunk id and an insert.
type ChunkWriter interface {
	Exists(ctx context.Context, chunkID string) (bool, error)
	Insert(ctx context.Context, chunkID, text, sourceFile string, embedding pgvector.Vector) error
}

// Reindexer rebuilds the vector index after a load when it has drifted.
type Reindexer interface {
	ReindexIfNeeded(ctx context.Context) error
}

// StoreStage embeds chunks and loads them into the vector store. Each
// chunk's existence check and insert is independent, so a crash
// mid-document resumes correctly on the next run. Processed/Skipped counts
// are per chunk, not per file.
type StoreStage struct {
	chunksDir string
	store     ChunkWriter
	embedder  rag_service.Embedder
	index     Reindexer
	logger    *slog.Logger
}

func NewStoreStage(chunksDir string, store ChunkWriter, embedder rag_service.Embedder, index Reindexer, logger *slog.Logger) *StoreStage {
	return &StoreStage{
		chunksDir: chunksDir,
		store:     store,
		embedder:  embedder,
		index:     index,
		logger:    logger,
	}
}

func (s *StoreStage) Run(ctx context.Context) (StageResult, error) {
	var result StageResult

	chunkFiles, err := listFilesWithSuffix(s.chunksDir, "_chunks.json")
	if err != nil {
		return result, fmt.Errorf("failed to read chunks directory: %w", err)
	}

	if len(chunkFiles) == 0 {
		fmt.Printf("No chunk JSON files found in %s\n", s.chunksDir)
		return result, nil
	}

	fmt.Printf("Found %d chunk files.\n\n", len(chunkFiles))

	for _, fileName := range chunkFiles {
		data, err := os.ReadFile(filepath.Join(s.chunksDir, fileName))
		if err != nil {
			s.logger.Error("Failed to read chunk file",
				slog.String("file", fileName),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		var chunkFile rag_service.ChunkFile
		if err := json.Unmarshal(data, &chunkFile); err != nil {
			s.logger.Error("Failed to parse chunk file",
				slog.String("file", fileName),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		sourceFile := chunkFile.SourceFile
		if sourceFile == "" {
			sourceFile = fileName
		}

		for _, chunk := range chunkFile.Chunks {
			exists, err := s.store.Exists(ctx, chunk.ChunkID)
			if err != nil {
				return result, fmt.Errorf("existence check failed for %s: %w", chunk.ChunkID, err)
			}
			if exists {
				result.Skipped++
				continue
			}

			embedding, err := s.embedder.Embed(ctx, chunk.Text)
			if err != nil {
				s.logger.Error("Failed to embed chunk",
					slog.String("chunk_id", chunk.ChunkID),
					slog.String("error", err.Error()))
				result.Failed++
				continue
			}

			if err := s.store.Insert(ctx, chunk.ChunkID, chunk.Text, sourceFile, embedding); err != nil {
				s.logger.Error("Failed to insert chunk",
					slog.String("chunk_id", chunk.ChunkID),
					slog.String("error", err.Error()))
				result.Failed++
				continue
			}

			result.Processed++
		}

		fmt.Printf("Done: %s\n", sourceFile)
	}

	if s.index != nil {
		if err := s.index.ReindexIfNeeded(ctx); err != nil {
			s.logger.Error("Failed to maintain vector index",
				slog.String("error", err.Error()))
		}
	}

	return result, nil
}
