package chat_service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/saarthi-labs/krishisaarthi/services/llm_service"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

// TopK is how many chunks are retrieved as context for a chat answer.
const TopK = 5

const chatTemperature = 0.2

const systemPrompt = "You are KrishiSaarthi, a helpful and knowledgeable agriculture policy assistant for Indian farmers. Help farmers understand government schemes, subsidies, eligibility, and how to apply for benefits."

const answerPromptTemplate = `You are KrishiSaarthi, an agriculture scheme assistant for Indian farmers.

Answer the farmer's question using ONLY the context below.
If the answer is not in the context, say: "I could not find this information in the available government documents."

Context:
%s

Farmer Question: %s

Give a comprehensive answer in simple English. Use bullet points and clear numbered steps where appropriate.`

// ChunkSearcher is the similarity-search surface of the chunk store.
type ChunkSearcher interface {
	Search(ctx context.Context, embedding pgvector.Vector, topK int) ([]rag_service.RetrievedChunk, error)
}

// ChatService answers a free-text question grounded on retrieved chunks.
// Grounding is enforced only through the prompt; the service does not
// verify the answer against the context.
type ChatService struct {
	store    ChunkSearcher
	embedder rag_service.Embedder
	llm      llm_service.LLMService
	apiKey   string
	model    string
	logger   *slog.Logger
}

func NewChatService(store ChunkSearcher, embedder rag_service.Embedder, llm llm_service.LLMService, apiKey, model string, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:    store,
		embedder: embedder,
		llm:      llm,
		apiKey:   apiKey,
		model:    model,
		logger:   logger,
	}
}

// Answer embeds the query, retrieves the nearest chunks, and asks the LLM
// for a grounded completion. It returns the answer text and the
// deduplicated, display-formatted source document names.
func (s *ChatService) Answer(ctx context.Context, query string) (string, []string, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := s.store.Search(ctx, embedding, TopK)
	if err != nil {
		return "", nil, fmt.Errorf("failed to retrieve chunks: %w", err)
	}

	contextBlocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		contextBlocks = append(contextBlocks, fmt.Sprintf("[Chunk %d]\n%s", i+1, chunk.Text))
	}
	contextText := strings.Join(contextBlocks, "\n")

	prompt := fmt.Sprintf(answerPromptTemplate, contextText, query)

	llmConfig := map[string]interface{}{
		"api_key":       s.apiKey,
		"model_name":    s.model,
		"temperature":   chatTemperature,
		"system_prompt": systemPrompt,
	}

	answer, err := s.llm.CallLLM(ctx, llmConfig, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("LLM request failed: %w", err)
	}

	return answer, FormatSources(chunks), nil
}
