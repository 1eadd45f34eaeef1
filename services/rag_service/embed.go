package rag_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"
)

const embeddingAPIURL = "https://api.openai.com/v1/embeddings"

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

type EmbeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Object string `json:"object"`
}

// EmbeddingService computes embeddings through the OpenAI embeddings API.
type EmbeddingService struct {
	httpClient *http.Client
	apiKey     string
	model      string
	logger     *slog.Logger
}

func NewEmbeddingService(apiKey, model string, logger *slog.Logger) *EmbeddingService {
	return &EmbeddingService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	vec, _, err := s.GetEmbeddingWithTokenCount(ctx, text)
	return vec, err
}

func (s *EmbeddingService) GetEmbeddingWithTokenCount(ctx context.Context, text string) (pgvector.Vector, int, error) {
	if s.apiKey == "" {
		return pgvector.Vector{}, 0, fmt.Errorf("OPENAI_API_KEY not set")
	}

	requestBody := EmbeddingRequest{
		Input: text,
		Model: s.model,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return pgvector.Vector{}, 0, fmt.Errorf("failed to marshal embedding request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", embeddingAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return pgvector.Vector{}, 0, fmt.Errorf("failed to create HTTP request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return pgvector.Vector{}, 0, fmt.Errorf("failed to send HTTP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return pgvector.Vector{}, 0, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var embeddingResp EmbeddingResponse
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&embeddingResp); err != nil {
		return pgvector.Vector{}, 0, fmt.Errorf("failed to decode embedding response: %v", err)
	}

	if len(embeddingResp.Data) == 0 {
		return pgvector.Vector{}, 0, fmt.Errorf("no embedding data received")
	}

	return pgvector.NewVector(embeddingResp.Data[0].Embedding), embeddingResp.Usage.TotalTokens, nil
}
