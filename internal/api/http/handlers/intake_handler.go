package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atende/servicedesk/internal/api/dto"
	"github.com/atende/servicedesk/internal/intake"
	"github.com/atende/servicedesk/pkg/apperrors"
)

// IntakeHandler exposes the chat provider webhook.
type IntakeHandler struct {
	adapter *intake.ChatAdapter
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(adapter *intake.ChatAdapter) *IntakeHandler {
	return &IntakeHandler{adapter: adapter}
}

// InboundChat POST /channels/chat/inbound. One message in, one text reply
// out; the adapter maps engine errors to user-facing replies itself.
func (h *IntakeHandler) InboundChat(c *fiber.Ctx) error {
	var req dto.InboundChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SenderID == "" {
		return apperrors.NewValidationError("sender_id required", nil)
	}
	reply := h.adapter.HandleMessage(c.UserContext(), intake.InboundMessage{
		SenderID: req.SenderID,
		Text:     req.Text,
		TicketID: req.TicketID,
	})
	return c.JSON(dto.InboundChatResponse{Reply: reply})
}
