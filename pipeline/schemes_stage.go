package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saarthi-labs/krishisaarthi/services/knowledge_service"
)

// SchemesStage runs structured scheme extraction for every document in the
// vector store. A document whose scheme JSON already exists is skipped; a
// document whose completions never parse ends up as a raw-output artifact
// and counts as failed.
type SchemesStage struct {
	builder *knowledge_service.SchemeBuilder
	logger  *slog.Logger
}

func NewSchemesStage(builder *knowledge_service.SchemeBuilder, logger *slog.Logger) *SchemesStage {
	return &SchemesStage{
		builder: builder,
		logger:  logger,
	}
}

func (s *SchemesStage) Run(ctx context.Context) (StageResult, error) {
	var result StageResult

	if err := s.builder.EnsureDirs(); err != nil {
		return result, err
	}

	sources, err := s.builder.ListSources(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to enumerate documents: %w", err)
	}

	fmt.Printf("Found %d documents in vector store.\n\n", len(sources))

	for _, sourceFile := range sources {
		if fileExists(s.builder.OutputPathFor(sourceFile)) {
			fmt.Printf("Skipped (already extracted): %s\n", sourceFile)
			result.Skipped++
			continue
		}

		fmt.Printf("Document: %s\n", sourceFile)

		status, err := s.builder.BuildDocument(ctx, sourceFile)
		if err != nil {
			s.logger.Error("Scheme extraction failed",
				slog.String("source_file", sourceFile),
				slog.String("error", err.Error()))
			fmt.Printf("Failed: %s | Error: %v\n", sourceFile, err)
			result.Failed++
			continue
		}

		switch status {
		case knowledge_service.StatusBuilt:
			fmt.Printf("Saved JSON: %s\n", s.builder.OutputPathFor(sourceFile))
			result.Processed++
		case knowledge_service.StatusRawSaved:
			fmt.Printf("Failed to parse. Saved raw output: %s\n", s.builder.RawPathFor(sourceFile))
			result.Failed++
		}
	}

	return result, nil
}
