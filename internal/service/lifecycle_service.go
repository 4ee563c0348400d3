package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atende/servicedesk/internal/domain"
	"github.com/atende/servicedesk/internal/events"
	"github.com/atende/servicedesk/internal/repository"
	"github.com/atende/servicedesk/pkg/apperrors"
)

// LifecycleService is the only component allowed to mutate tickets and the
// audit trail together. It owns the status machine: edge legality is
// enforced here regardless of caller, and any check a caller performs is a
// UX convenience only.
type LifecycleService struct {
	tickets    repository.TicketRepository
	history    repository.HistoryRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// LifecycleDependencies bundles collaborators for the engine.
type LifecycleDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.HistoryRepository
	TxManager   repository.TxManager
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// CreateInput describes ticket creation payload.
type CreateInput struct {
	Origin         domain.OriginChannel
	ContactAddress *string
	RequestText    string
	ActorID        *string
}

// ListFilter describes listing parameters for dashboards.
type ListFilter struct {
	Statuses []domain.TicketStatus
	Channels []domain.OriginChannel
	Limit    int
	Offset   int
}

// NewLifecycleService constructs the engine.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		tx:         deps.TxManager,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create inserts a new REQUESTED ticket and its creation history entry in
// one transaction.
func (s *LifecycleService) Create(ctx context.Context, input CreateInput) (*domain.Ticket, error) {
	if !domain.ValidChannel(input.Origin) {
		return nil, apperrors.NewValidationError("unrecognized origin channel",
			map[string]any{"origin_channel": string(input.Origin)})
	}
	requestText := strings.TrimSpace(input.RequestText)
	if requestText == "" {
		return nil, apperrors.NewValidationError("request_text is required", nil)
	}
	contact := normalizeContact(input.ContactAddress)
	if domain.ChannelRequiresContact(input.Origin) && contact == nil {
		return nil, apperrors.NewValidationError("contact_address is required for this channel",
			map[string]any{"origin_channel": string(input.Origin)})
	}

	ticket := &domain.Ticket{
		Status:         domain.TicketStatusRequested,
		OriginChannel:  input.Origin,
		ContactAddress: contact,
		RequestText:    requestText,
		LastEditedBy:   input.ActorID,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Insert(ctx, ticket); err != nil {
			return err
		}
		entry := &domain.HistoryEntry{
			TicketID:       ticket.ID,
			PreviousStatus: nil,
			NewStatus:      domain.TicketStatusRequested,
			Note:           domain.HistoryNoteCreated,
			ActorID:        input.ActorID,
		}
		return s.history.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Ticket: *ticket},
	})
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("origin_channel", string(ticket.OriginChannel)))
	return ticket, nil
}

// Transition moves a ticket along one edge of the status machine. The
// current status is read under a row lock; the update is a compare-and-set
// on that status so a lost race surfaces as a concurrency conflict. Exactly
// one history entry is appended per successful call, and exactly one
// notification attempt is published after commit.
func (s *LifecycleService) Transition(ctx context.Context, ticketID string, target domain.TicketStatus, note string, actorID *string) (*domain.Ticket, error) {
	if !domain.ValidStatus(target) {
		return nil, apperrors.NewValidationError("unrecognized target status",
			map[string]any{"target_status": string(target)})
	}
	if note = strings.TrimSpace(note); note == "" {
		note = domain.HistoryNoteStatusUpdate
	}

	var (
		ticket   *domain.Ticket
		previous domain.TicketStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		previous = current.Status
		if !domain.CanTransition(previous, target) {
			return apperrors.NewInvalidTransition(string(previous), string(target))
		}

		current.Status = target
		current.LastEditedBy = actorID
		if err := s.tickets.UpdateStatus(ctx, current, previous); err != nil {
			return err
		}

		prev := previous
		entry := &domain.HistoryEntry{
			TicketID:       current.ID,
			PreviousStatus: &prev,
			NewStatus:      target,
			Note:           note,
			ActorID:        actorID,
		}
		if err := s.history.Append(ctx, entry); err != nil {
			return err
		}
		ticket = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			Ticket:         *ticket,
			PreviousStatus: previous,
			NewStatus:      target,
			Note:           note,
			ActorID:        actorID,
			AttemptID:      uuid.NewString(),
		},
	})
	s.logger.Info("ticket transitioned",
		zap.String("ticket_id", ticket.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))
	return ticket, nil
}

// Get returns the ticket by id. Plain read, no side effects.
func (s *LifecycleService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// ListHistory returns the ticket's audit trail ordered by occurrence time
// ascending.
func (s *LifecycleService) ListHistory(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, ticketID)
}

// List returns tickets matching the filter.
func (s *LifecycleService) List(ctx context.Context, filter ListFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: filter.Statuses,
		Channels: filter.Channels,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

func (s *LifecycleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.dispatcher.Publish(ctx, event)
}

func normalizeContact(contact *string) *string {
	if contact == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*contact)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
