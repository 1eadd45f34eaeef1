package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

// CleanStage normalizes extracted text files.
type CleanStage struct {
	inputDir  string
	outputDir string
	logger    *slog.Logger
}

func NewCleanStage(inputDir, outputDir string, logger *slog.Logger) *CleanStage {
	return &CleanStage{
		inputDir:  inputDir,
		outputDir: outputDir,
		logger:    logger,
	}
}

func (s *CleanStage) Run(ctx context.Context) (StageResult, error) {
	var result StageResult

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	txtFiles, err := listFilesWithSuffix(s.inputDir, ".txt")
	if err != nil {
		return result, fmt.Errorf("failed to read input directory: %w", err)
	}

	if len(txtFiles) == 0 {
		fmt.Printf("No TXT files found in %s\n", s.inputDir)
		return result, nil
	}

	fmt.Printf("Found %d extracted text files.\n\n", len(txtFiles))

	for _, txtFile := range txtFiles {
		outputPath := filepath.Join(s.outputDir, txtFile)

		if fileExists(outputPath) {
			fmt.Printf("Skipped (already cleaned): %s\n", txtFile)
			result.Skipped++
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.inputDir, txtFile))
		if err != nil {
			s.logger.Error("Failed to read extracted text",
				slog.String("file", txtFile),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		cleaned := rag_service.CleanText(string(raw))

		if err := os.WriteFile(outputPath, []byte(cleaned), 0644); err != nil {
			s.logger.Error("Failed to write cleaned text",
				slog.String("file", txtFile),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		fmt.Printf("Cleaned: %s\n", txtFile)
		result.Processed++
	}

	return result, nil
}
