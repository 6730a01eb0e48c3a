package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/parley-chat/parley/internal/domain"
)

// Converser is the AI conversation service behind the chat endpoint.
type Converser interface {
	Converse(ctx context.Context, username, prompt string) (string, domain.Outcome, error)
}

// ChatHandler handles AI chat requests.
type ChatHandler struct {
	ai Converser
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(ai Converser) *ChatHandler {
	return &ChatHandler{ai: ai}
}

// Chat runs one conversation exchange. Valid requests always get a 200 with
// a reply string; the service substitutes a fallback when the completion
// backend fails.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and message are required"})
	}

	reply, _, err := h.ai.Converse(c.Request().Context(), req.Username, req.Message)
	if err != nil {
		if domain.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not process your message"})
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
