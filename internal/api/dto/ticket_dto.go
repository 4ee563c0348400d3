package dto

import (
	"time"

	"github.com/atende/servicedesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Origin         domain.OriginChannel `json:"origin"`
	ContactAddress *string              `json:"contact_address"`
	RequestText    string               `json:"request_text"`
}

// TransitionTicketRequest payload.
type TransitionTicketRequest struct {
	TargetStatus domain.TicketStatus `json:"target_status"`
	Note         string              `json:"note"`
}

// TicketResponse represents a ticket over the API boundary. Status values
// are stable string tokens; callers must treat unrecognized future values
// as opaque.
type TicketResponse struct {
	ID             string               `json:"id"`
	Status         domain.TicketStatus  `json:"status"`
	Origin         domain.OriginChannel `json:"origin"`
	ContactAddress *string              `json:"contact_address,omitempty"`
	RequestText    string               `json:"request_text"`
	LastEditedBy   *string              `json:"last_edited_by,omitempty"`
	ProposedTime   *time.Time           `json:"proposed_time,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// HistoryEntryResponse represents one audit record.
type HistoryEntryResponse struct {
	ID             int64                `json:"id"`
	TicketID       string               `json:"ticket_id"`
	PreviousStatus *domain.TicketStatus `json:"previous_status"`
	NewStatus      domain.TicketStatus  `json:"new_status"`
	Note           string               `json:"note"`
	ActorID        *string              `json:"actor_id,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// InboundChatRequest is the webhook envelope from the chat provider.
type InboundChatRequest struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
	TicketID string `json:"ticket_id,omitempty"`
}

// InboundChatResponse is the single text reply sent back to the provider.
type InboundChatResponse struct {
	Reply string `json:"reply"`
}
