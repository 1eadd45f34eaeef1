package knowledge_service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/saarthi-labs/krishisaarthi/services/llm_service"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

// TopK is how many chunks are retrieved with the document's filename as a
// pseudo-query. If a document has more chunks than this, the extraction
// context is silently partial.
const TopK = 18

// Retries is how many additional attempts follow a failed JSON parse, so
// total attempts = Retries + 1.
const Retries = 2

const extractionTemperature = 0.1

const extractionSystemPrompt = "You output JSON only."

const schemePromptTemplate = `Return ONLY valid JSON. No markdown. No explanation.

You are extracting structured scheme information from an official agriculture PDF.

Source file: %s

Context:
%s

JSON format:
{
  "title": "",
  "objective": "",
  "benefits": [],
  "eligibility": [],
  "documents_required": [],
  "how_to_apply": [],
  "official_links": [],
  "helpline": [],
  "dates": "",
  "notes": "",
  "source_file": "%s"
}

Rules:
- Use ONLY given context.
- If unknown keep "" or [].`

// ChunkRetriever is the part of the chunk store the builder needs:
// enumerating documents and retrieving their chunks by similarity.
type ChunkRetriever interface {
	ListSourceFiles(ctx context.Context) ([]string, error)
	Search(ctx context.Context, embedding pgvector.Vector, topK int) ([]rag_service.RetrievedChunk, error)
}

// BuildStatus reports how a single document extraction ended.
type BuildStatus int

const (
	// StatusBuilt means a structured scheme JSON was written.
	StatusBuilt BuildStatus = iota
	// StatusRawSaved means every attempt failed to parse and the last raw
	// completion was saved for manual review instead.
	StatusRawSaved
)

// SchemeBuilder turns each document's stored chunks into one structured
// scheme record via LLM extraction.
type SchemeBuilder struct {
	store        ChunkRetriever
	embedder     rag_service.Embedder
	llm          llm_service.LLMService
	apiKey       string
	model        string
	outputDir    string
	rawOutputDir string
	logger       *slog.Logger
}

func NewSchemeBuilder(store ChunkRetriever, embedder rag_service.Embedder, llm llm_service.LLMService, apiKey, model, outputDir, rawOutputDir string, logger *slog.Logger) *SchemeBuilder {
	return &SchemeBuilder{
		store:        store,
		embedder:     embedder,
		llm:          llm,
		apiKey:       apiKey,
		model:        model,
		outputDir:    outputDir,
		rawOutputDir: rawOutputDir,
		logger:       logger,
	}
}

// EnsureDirs creates the scheme and raw-output directories.
func (b *SchemeBuilder) EnsureDirs() error {
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create schemes directory: %w", err)
	}
	if err := os.MkdirAll(b.rawOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create raw outputs directory: %w", err)
	}
	return nil
}

// ListSources enumerates the distinct documents present in the store.
func (b *SchemeBuilder) ListSources(ctx context.Context) ([]string, error) {
	return b.store.ListSourceFiles(ctx)
}

// OutputPathFor is the terminal JSON artifact path for a document. Its
// existence marks the document as done.
func (b *SchemeBuilder) OutputPathFor(sourceFile string) string {
	return filepath.Join(b.outputDir, SafeFilename(sourceFile)+".json")
}

// RawPathFor is where the last unparseable completion is kept for manual
// triage.
func (b *SchemeBuilder) RawPathFor(sourceFile string) string {
	return filepath.Join(b.rawOutputDir, SafeFilename(sourceFile)+"_raw.txt")
}

// BuildDocument retrieves the document's own chunks, asks the LLM for the
// fixed-schema JSON record, and persists it. Chunks retrieved from other
// documents are filtered out before prompting. A completion that never
// parses is degraded to a raw-text artifact rather than an error.
func (b *SchemeBuilder) BuildDocument(ctx context.Context, sourceFile string) (BuildStatus, error) {
	embedding, err := b.embedder.Embed(ctx, sourceFile)
	if err != nil {
		return 0, fmt.Errorf("failed to embed document name: %w", err)
	}

	retrieved, err := b.store.Search(ctx, embedding, TopK)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve chunks: %w", err)
	}

	// Filename-as-query retrieval can pull in chunks from other documents;
	// keep only the target's own.
	contextParts := make([]string, 0, len(retrieved))
	for _, chunk := range retrieved {
		if chunk.SourceFile == sourceFile {
			contextParts = append(contextParts, chunk.Text)
		}
	}
	contextText := strings.Join(contextParts, "\n\n")

	prompt := fmt.Sprintf(schemePromptTemplate, sourceFile, contextText, sourceFile)

	llmConfig := map[string]interface{}{
		"api_key":       b.apiKey,
		"model_name":    b.model,
		"temperature":   extractionTemperature,
		"system_prompt": extractionSystemPrompt,
	}

	var lastRaw string
	var lastErr error

	for attempt := 1; attempt <= Retries+1; attempt++ {
		raw, err := b.llm.CallLLM(ctx, llmConfig, prompt)
		if err != nil {
			lastErr = err
			b.logger.Warn("LLM request failed during scheme extraction",
				slog.String("source_file", sourceFile),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			continue
		}
		lastRaw = raw

		parsed, ok := ExtractJSONFromText(raw)
		if ok {
			// The record must name the document it came from, whatever the
			// model echoed back.
			parsed["source_file"] = sourceFile
			if err := b.writeScheme(sourceFile, parsed); err != nil {
				return 0, err
			}
			return StatusBuilt, nil
		}

		b.logger.Warn("JSON parsing failed",
			slog.String("source_file", sourceFile),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", Retries+1))
	}

	if lastRaw == "" {
		if lastErr != nil {
			return 0, fmt.Errorf("all extraction attempts failed: %w", lastErr)
		}
		return 0, fmt.Errorf("all extraction attempts failed for %s", sourceFile)
	}

	if err := b.writeRawOutput(sourceFile, lastRaw); err != nil {
		return 0, err
	}
	return StatusRawSaved, nil
}

func (b *SchemeBuilder) writeScheme(sourceFile string, record map[string]interface{}) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scheme record: %w", err)
	}

	outputPath := b.OutputPathFor(sourceFile)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write scheme record: %w", err)
	}

	b.logger.Info("Saved scheme record",
		slog.String("source_file", sourceFile),
		slog.String("path", outputPath))
	return nil
}

func (b *SchemeBuilder) writeRawOutput(sourceFile, raw string) error {
	rawPath := b.RawPathFor(sourceFile)
	if err := os.WriteFile(rawPath, []byte(raw), 0644); err != nil {
		return fmt.Errorf("failed to write raw output: %w", err)
	}

	b.logger.Error("Extraction failed, saved raw output for review",
		slog.String("source_file", sourceFile),
		slog.String("path", rawPath))
	return nil
}

var nonAlphanumericRuns = regexp.MustCompile(`[^a-z0-9]+`)

// SafeFilename normalizes a source document name into a filesystem-safe
// slug: lowercase, ".txt" removed, non-alphanumeric runs collapsed to "_".
func SafeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".txt")
	name = nonAlphanumericRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
