package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

func TestExtractStageSkipsExistingOutputs(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeFile(t, filepath.Join(inputDir, "pmkisan.pdf"), "%PDF-1.4")
	writeFile(t, filepath.Join(outputDir, "pmkisan.txt"), "already extracted")

	extractor := rag_service.NewDocumentExtractor(testLogger())
	stage := NewExtractStage(extractor, inputDir, outputDir, testLogger())

	result, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Skipped != 1 || result.Processed != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 1 skipped", result)
	}

	if got := readFile(t, filepath.Join(outputDir, "pmkisan.txt")); got != "already extracted" {
		t.Error("existing output was overwritten")
	}
}

func TestExtractStageIgnoresNonPDFFiles(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeFile(t, filepath.Join(inputDir, "readme.txt"), "not a pdf")

	extractor := rag_service.NewDocumentExtractor(testLogger())
	stage := NewExtractStage(extractor, inputDir, outputDir, testLogger())

	result, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != (StageResult{}) {
		t.Errorf("result = %+v, want zero", result)
	}
}

func TestExtractStageInvalidPDFCountsAsFailed(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeFile(t, filepath.Join(inputDir, "broken.pdf"), "not really a pdf")

	extractor := rag_service.NewDocumentExtractor(testLogger())
	stage := NewExtractStage(extractor, inputDir, outputDir, testLogger())

	result, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("result = %+v, want 1 failed", result)
	}
	if fileExists(filepath.Join(outputDir, "broken.txt")) {
		t.Error("no output file should be written for a failed extraction")
	}
}
