package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/atende/servicedesk/internal/api/dto"
	"github.com/atende/servicedesk/internal/auth"
	"github.com/atende/servicedesk/internal/domain"
	"github.com/atende/servicedesk/internal/service"
	"github.com/atende/servicedesk/pkg/apperrors"
)

// LifecycleAPI is the engine surface the HTTP layer drives.
type LifecycleAPI interface {
	Create(ctx context.Context, input service.CreateInput) (*domain.Ticket, error)
	Transition(ctx context.Context, ticketID string, target domain.TicketStatus, note string, actorID *string) (*domain.Ticket, error)
	Get(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ListHistory(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error)
	List(ctx context.Context, filter service.ListFilter) ([]domain.Ticket, error)
}

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	engine LifecycleAPI
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(engine LifecycleAPI) *TicketsHandler {
	return &TicketsHandler{engine: engine}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.engine.Create(c.UserContext(), service.CreateInput{
		Origin:         req.Origin,
		ContactAddress: req.ContactAddress,
		RequestText:    req.RequestText,
		ActorID:        auth.ActorFromContext(c),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// TransitionTicket POST /tickets/:id/transition. A lost concurrency race is
// retried once silently before surfacing to the caller.
func (h *TicketsHandler) TransitionTicket(c *fiber.Ctx) error {
	var req dto.TransitionTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TargetStatus == "" {
		return apperrors.NewValidationError("target_status required", nil)
	}

	ticketID := c.Params("id")
	actorID := auth.ActorFromContext(c)
	ticket, err := h.engine.Transition(c.UserContext(), ticketID, req.TargetStatus, req.Note, actorID)
	if apperrors.IsCode(err, "CONCURRENCY_CONFLICT") {
		ticket, err = h.engine.Transition(c.UserContext(), ticketID, req.TargetStatus, req.Note, actorID)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// GetTicketHistory GET /tickets/:id/history.
func (h *TicketsHandler) GetTicketHistory(c *fiber.Ctx) error {
	entries, err := h.engine.ListHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, historyEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketListQuery(c)
	tickets, err := h.engine.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketListQuery(c *fiber.Ctx) service.ListFilter {
	filter := service.ListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if originStr := c.Query("origin"); originStr != "" {
		for _, part := range strings.Split(originStr, ",") {
			filter.Channels = append(filter.Channels, domain.OriginChannel(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             ticket.ID,
		Status:         ticket.Status,
		Origin:         ticket.OriginChannel,
		ContactAddress: ticket.ContactAddress,
		RequestText:    ticket.RequestText,
		LastEditedBy:   ticket.LastEditedBy,
		ProposedTime:   ticket.ProposedTime,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

func historyEntryResponse(entry *domain.HistoryEntry) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:             entry.ID,
		TicketID:       entry.TicketID,
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		Note:           entry.Note,
		ActorID:        entry.ActorID,
		OccurredAt:     entry.OccurredAt,
	}
}
