package events

import (
	"time"

	"github.com/atende/servicedesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by the lifecycle engine after a
// transaction has committed.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// TicketStatusChangedPayload payload. AttemptID identifies this dispatch
// attempt so downstream delivery can be deduplicated.
type TicketStatusChangedPayload struct {
	Ticket         domain.Ticket       `json:"ticket"`
	PreviousStatus domain.TicketStatus `json:"previous_status"`
	NewStatus      domain.TicketStatus `json:"new_status"`
	Note           string              `json:"note,omitempty"`
	ActorID        *string             `json:"actor_id,omitempty"`
	AttemptID      string              `json:"attempt_id"`
}
