package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

// ExtractStage converts PDFs into plain text files. A document that fails
// to extract is logged and the batch moves on; no output file is produced
// for it, so the next run retries it.
type ExtractStage struct {
	extractor *rag_service.DocumentExtractor
	inputDir  string
	outputDir string
	logger    *slog.Logger
}

func NewExtractStage(extractor *rag_service.DocumentExtractor, inputDir, outputDir string, logger *slog.Logger) *ExtractStage {
	return &ExtractStage{
		extractor: extractor,
		inputDir:  inputDir,
		outputDir: outputDir,
		logger:    logger,
	}
}

func (s *ExtractStage) Run(ctx context.Context) (StageResult, error) {
	var result StageResult

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	pdfFiles, err := listFilesWithSuffix(s.inputDir, ".pdf")
	if err != nil {
		return result, fmt.Errorf("failed to read input directory: %w", err)
	}

	if len(pdfFiles) == 0 {
		fmt.Printf("No PDFs found in %s\n", s.inputDir)
		return result, nil
	}

	fmt.Printf("Found %d PDFs...\n\n", len(pdfFiles))

	for _, pdfFile := range pdfFiles {
		txtName := outputName(pdfFile, ".txt")
		outputPath := filepath.Join(s.outputDir, txtName)

		if fileExists(outputPath) {
			fmt.Printf("Skipped (already extracted): %s\n", pdfFile)
			result.Skipped++
			continue
		}

		fmt.Printf("Processing: %s\n", pdfFile)

		text, err := s.extractor.ExtractText(ctx, filepath.Join(s.inputDir, pdfFile))
		if err != nil {
			s.logger.Error("Extraction failed",
				slog.String("file", pdfFile),
				slog.String("error", err.Error()))
			fmt.Printf("Failed: %s | Error: %v\n", pdfFile, err)
			result.Failed++
			continue
		}

		if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
			s.logger.Error("Failed to write extracted text",
				slog.String("file", pdfFile),
				slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		fmt.Printf("Saved: %s\n", txtName)
		result.Processed++
	}

	return result, nil
}
