package intake

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atende/servicedesk/internal/domain"
	"github.com/atende/servicedesk/internal/service"
	"github.com/atende/servicedesk/pkg/apperrors"
)

// Lifecycle is the slice of the lifecycle engine the adapter drives. The
// adapter holds no lifecycle logic of its own; it only translates a tiny
// message vocabulary into engine calls.
type Lifecycle interface {
	Create(ctx context.Context, input service.CreateInput) (*domain.Ticket, error)
	Get(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Transition(ctx context.Context, ticketID string, target domain.TicketStatus, note string, actorID *string) (*domain.Ticket, error)
}

// InboundMessage is the envelope received from the chat provider. The sender
// identifier is trusted as supplied by the provider; this boundary carries
// no authentication of its own.
type InboundMessage struct {
	SenderID string
	Text     string
	TicketID string
}

// ChatAdapter is a stateless front-end for chat-originated requests. No
// session state survives between messages beyond what is re-read from the
// ticket store.
type ChatAdapter struct {
	engine Lifecycle
	logger *zap.Logger
}

// NewChatAdapter constructs the adapter.
func NewChatAdapter(engine Lifecycle, logger *zap.Logger) *ChatAdapter {
	return &ChatAdapter{engine: engine, logger: logger}
}

const menuText = "Hello! I can help with your service requests.\n" +
	"1 <description> - open a new request\n" +
	"2 <ticket id> - check the status of a request\n" +
	"3 <ticket id> - ask for an attendant\n" +
	"Send \"menu\" to see these options again."

const helpText = "Sorry, I did not understand that. Send \"hi\" to see what I can do."

// HandleMessage turns one inbound message into one text reply. Engine errors
// are mapped to plain human-readable replies, never surfaced raw.
func (a *ChatAdapter) HandleMessage(ctx context.Context, msg InboundMessage) string {
	text := strings.ToLower(strings.TrimSpace(msg.Text))

	switch {
	case text == "hi" || text == "menu":
		return menuText
	case strings.HasPrefix(text, "1"):
		return a.createTicket(ctx, msg)
	case strings.HasPrefix(text, "2"):
		return a.queryStatus(ctx, msg)
	case strings.HasPrefix(text, "3"):
		return a.requestAttendant(ctx, msg)
	default:
		return helpText
	}
}

func (a *ChatAdapter) createTicket(ctx context.Context, msg InboundMessage) string {
	sender := msg.SenderID
	ticket, err := a.engine.Create(ctx, service.CreateInput{
		Origin:         domain.ChannelChat,
		ContactAddress: &sender,
		RequestText:    strings.TrimSpace(msg.Text),
	})
	if err != nil {
		a.logger.Warn("chat intake create failed", zap.String("sender_id", msg.SenderID), zap.Error(err))
		return "Sorry, I could not open your request. Please try again."
	}
	return fmt.Sprintf("Your request was registered!\nTicket: %s\nStatus: %s", ticket.ID, ticket.Status)
}

func (a *ChatAdapter) queryStatus(ctx context.Context, msg InboundMessage) string {
	ticketID := ticketIDFrom(msg)
	if ticketID == "" {
		return "Please send \"2\" followed by your ticket id."
	}
	ticket, err := a.engine.Get(ctx, ticketID)
	if err != nil {
		if apperrors.IsCode(err, "NOT_FOUND") {
			return fmt.Sprintf("I could not find ticket %s. Check the id and try again.", ticketID)
		}
		a.logger.Warn("chat intake status query failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return "Sorry, I could not look that up right now. Please try again."
	}
	reply := fmt.Sprintf("Ticket %s\nStatus: %s", ticket.ID, ticket.Status)
	if ticket.ProposedTime != nil {
		reply += fmt.Sprintf("\nProposed time: %s", ticket.ProposedTime.Format("2006-01-02 15:04"))
	}
	return reply
}

func (a *ChatAdapter) requestAttendant(ctx context.Context, msg InboundMessage) string {
	ticketID := ticketIDFrom(msg)
	if ticketID == "" {
		return "Please send \"3\" followed by your ticket id."
	}
	ticket, err := a.engine.Transition(ctx, ticketID, domain.TicketStatusPendingAttendance, "requested_human", nil)
	if err != nil {
		switch {
		case apperrors.IsCode(err, "NOT_FOUND"):
			return fmt.Sprintf("I could not find ticket %s. Check the id and try again.", ticketID)
		case apperrors.IsCode(err, "INVALID_TRANSITION"):
			return "Your request is already being handled."
		default:
			a.logger.Warn("chat intake escalation failed", zap.String("ticket_id", ticketID), zap.Error(err))
			return "Sorry, I could not do that right now. Please try again."
		}
	}
	return fmt.Sprintf("Got it! An attendant will pick up ticket %s shortly.\nStatus: %s", ticket.ID, ticket.Status)
}

// ticketIDFrom prefers the envelope's ticket id and falls back to the second
// whitespace-separated token of the message text.
func ticketIDFrom(msg InboundMessage) string {
	if id := strings.TrimSpace(msg.TicketID); id != "" {
		return id
	}
	fields := strings.Fields(msg.Text)
	if len(fields) >= 2 {
		return fields[1]
	}
	return ""
}
