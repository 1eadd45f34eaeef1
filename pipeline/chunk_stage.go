package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

// ChunkStage splits cleaned text files into overlapping chunks and writes
// one chunk JSON file per document.
type ChunkStage struct {
	inputDir  string
	outputDir string
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

func NewChunkStage(inputDir, outputDir string, chunkSize, overlap int, logger *slog.Logger) *ChunkStage {
	return &ChunkStage{
		inputDir:  inputDir,
		outputDir: outputDir,
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

func (s *ChunkStage) Run(ctx context.Context) (StageResult, error) {
	var result StageResult

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	txtFiles, err := listFilesWithSuffix(s.inputDir, ".txt")
	if err != nil {
		return result, fmt.Errorf("failed to read input directory: %w", err)
	}

	if len(txtFiles) == 0 {
		fmt.Printf("No cleaned text files found in %s\n", s.inputDir)
		return result, nil
	}

	fmt.Printf("Found %d cleaned files.\n\n", len(txtFiles))

	for _, txtFile := range txtFiles {
		jsonName := strings.TrimSuffix(txtFile, ".txt") + "_chunks.json"
		outputPath := filepath.Join(s.outputDir, jsonName)

		if fileExists(outputPath) {
			fmt.Printf("Skipped (already chunked): %s\n", txtFile)
			result.Skipped++
			continue
		}

		text, err := os.ReadFile(filepath.Join(s.inputDir, txtFile))
		if err != nil {
			s.logger.Error("Failed to read cleaned text",
				slog.String("file", txtFile),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		chunkFile := rag_service.BuildChunkFile(txtFile, string(text), s.chunkSize, s.overlap)

		data, err := json.MarshalIndent(chunkFile, "", "  ")
		if err != nil {
			s.logger.Error("Failed to marshal chunk file",
				slog.String("file", txtFile),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			s.logger.Error("Failed to write chunk file",
				slog.String("file", txtFile),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		fmt.Printf("Chunked: %s -> %d chunks\n", txtFile, chunkFile.TotalChunks)
		result.Processed++
	}

	return result, nil
}
