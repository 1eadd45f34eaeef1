package llm_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultAPIURL is the Groq chat completions endpoint. Groq speaks the
// OpenAI chat completions wire format.
const DefaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

const defaultSystemPrompt = "You are a helpful assistant."

type GroqService struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGroqService(logger *zap.Logger) *GroqService {
	return &GroqService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

func (s *GroqService) CallLLM(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
	apiURL, ok := config["api_url"].(string)
	if !ok || apiURL == "" {
		apiURL = DefaultAPIURL
	}

	apiKey, ok := config["api_key"].(string)
	if !ok || apiKey == "" {
		return "", fmt.Errorf("api_key not found in config")
	}

	modelName, ok := config["model_name"].(string)
	if !ok || modelName == "" {
		return "", fmt.Errorf("model_name not found in config")
	}

	systemPrompt, ok := config["system_prompt"].(string)
	if !ok || systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	temperature := safeParseFloat(config["temperature"], 0)

	messages := []map[string]string{
		{"role": "system", "content": systemPrompt},
		{"role": "user", "content": prompt},
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":       modelName,
		"messages":    messages,
		"temperature": temperature,
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpErr := extractGroqErrorDetails(resp)
		s.logger.Error("Groq API returned an error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", httpErr.Message),
			zap.String("error_type", httpErr.ErrorType))
		return "", httpErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	choices, ok := result["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return "", fmt.Errorf("unexpected response format from Groq API")
	}

	firstChoice, ok := choices[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected choice format in Groq API response")
	}

	message, ok := firstChoice["message"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("message not found in Groq API response")
	}

	content, ok := message["content"].(string)
	if !ok {
		return "", fmt.Errorf("content not found in Groq API response")
	}

	return content, nil
}

// safeParseFloat tolerates the loosely-typed values a config map can carry.
func safeParseFloat(value interface{}, defaultValue float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultValue
}
