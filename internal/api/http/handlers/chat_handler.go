package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-assistant/internal/api/dto"
	"github.com/spec-kit/ticket-assistant/internal/service"
	apperrors "github.com/spec-kit/ticket-assistant/pkg/util"
)

// ChatHandler serves the assistant endpoint.
type ChatHandler struct {
	assistant *service.AssistantService
}

// NewChatHandler constructs handler.
func NewChatHandler(assistant *service.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// Chat POST /chat.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.assistant.Chat(c.UserContext(), service.ChatInput{
		Message: req.Message,
		UserID:  req.UserID,
		Org:     req.Org,
	})
	if err != nil {
		return err
	}
	resp := dto.ChatResponse{Response: result.Response, Intent: string(result.Intent)}
	if result.TicketID != "" {
		resp.TicketID = &result.TicketID
	}
	return c.JSON(resp)
}
