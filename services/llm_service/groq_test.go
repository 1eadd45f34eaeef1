package llm_service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func testConfig(apiURL string) map[string]interface{} {
	return map[string]interface{}{
		"api_url":       apiURL,
		"api_key":       "test-key",
		"model_name":    "llama-3.1-8b-instant",
		"temperature":   0.2,
		"system_prompt": "You output JSON only.",
	}
}

func TestGroqServiceCallLLM(t *testing.T) {
	var gotRequest map[string]interface{}
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "PM-KISAN pays Rs 6000 per year."}},
			},
		})
	}))
	defer server.Close()

	svc := NewGroqService(zap.NewNop())

	content, err := svc.CallLLM(context.Background(), testConfig(server.URL), "How much does PM-KISAN pay?")
	if err != nil {
		t.Fatalf("CallLLM: %v", err)
	}
	if content != "PM-KISAN pays Rs 6000 per year." {
		t.Errorf("content = %q", content)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequest["model"] != "llama-3.1-8b-instant" {
		t.Errorf("model = %v", gotRequest["model"])
	}
	if gotRequest["temperature"] != 0.2 {
		t.Errorf("temperature = %v", gotRequest["temperature"])
	}

	messages, ok := gotRequest["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", gotRequest["messages"])
	}
	system := messages[0].(map[string]interface{})
	if system["role"] != "system" || system["content"] != "You output JSON only." {
		t.Errorf("system message = %v", system)
	}
	user := messages[1].(map[string]interface{})
	if user["role"] != "user" || user["content"] != "How much does PM-KISAN pay?" {
		t.Errorf("user message = %v", user)
	}
}

func TestGroqServiceMissingConfig(t *testing.T) {
	svc := NewGroqService(zap.NewNop())

	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{"missing api_key", map[string]interface{}{"model_name": "llama-3.1-8b-instant"}},
		{"missing model_name", map[string]interface{}{"api_key": "test-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CallLLM(context.Background(), tt.config, "prompt"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGroqServiceHTTPError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Rate limit reached", "type": "tokens"},
		})
	}))
	defer server.Close()

	svc := NewGroqService(zap.NewNop())

	_, err := svc.CallLLM(context.Background(), testConfig(server.URL), "prompt")
	if err == nil {
		t.Fatal("expected an error")
	}

	var httpErr *GroqHTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error type = %T", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status code = %d", httpErr.StatusCode)
	}
	if httpErr.Message != "Rate limit reached" {
		t.Errorf("message = %q", httpErr.Message)
	}

	// The client makes exactly one request; any retrying is the caller's
	// concern.
	if calls != 1 {
		t.Errorf("request count = %d, want 1", calls)
	}
}

func TestSafeParseFloat(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
	}{
		{"float64", 0.7, 0.7},
		{"int", 1, 1.0},
		{"int64", int64(2), 2.0},
		{"string", "0.5", 0.3},
		{"nil", nil, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeParseFloat(tt.value, 0.3); got != tt.want {
				t.Errorf("safeParseFloat(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
