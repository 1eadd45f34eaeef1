package llm_service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GroqError represents the error structure returned by the Groq API
// (OpenAI-compatible).
type GroqError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

type GroqHTTPError struct {
	StatusCode int
	Message    string
	ErrorType  string
	RawBody    string
}

func (e *GroqHTTPError) Error() string {
	return fmt.Sprintf("Groq API error (HTTP %d): %s (Type: %s)", e.StatusCode, e.Message, e.ErrorType)
}

// extractGroqErrorDetails extracts error information from Groq API
// responses, falling back to the raw body when it is not the expected
// error shape.
func extractGroqErrorDetails(resp *http.Response) *GroqHTTPError {
	httpErr := &GroqHTTPError{
		StatusCode: resp.StatusCode,
		Message:    "unknown error",
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return httpErr
	}
	httpErr.RawBody = string(body)

	var groqErr GroqError
	if err := json.Unmarshal(body, &groqErr); err == nil && groqErr.Error.Message != "" {
		httpErr.Message = groqErr.Error.Message
		httpErr.ErrorType = groqErr.Error.Type
	} else if len(body) > 0 {
		httpErr.Message = string(body)
	}

	return httpErr
}
