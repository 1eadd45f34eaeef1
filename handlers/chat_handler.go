package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Answerer produces a grounded answer and its source list for a query.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, []string, error)
}

// ChatHandler handles POST /chat requests.
type ChatHandler struct {
	chat   Answerer
	logger *slog.Logger
}

func NewChatHandler(chat Answerer, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode chat request body",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(req.Message)
	if query == "" {
		writeJSONError(w, "Empty message", http.StatusBadRequest)
		return
	}

	h.logger.Info("Received chat message",
		slog.String("request_id", requestID),
		slog.Int("message_length", len(query)))

	answer, sources, err := h.chat.Answer(r.Context(), query)
	if err != nil {
		h.logger.Error("Chat request failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{Answer: answer, Sources: sources}); err != nil {
		h.logger.Error("Failed to encode chat response",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
	}
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
