package domain

import "time"

// History entry notes written by the lifecycle engine itself.
const (
	HistoryNoteCreated      = "created"
	HistoryNoteStatusUpdate = "status_update"
)

// HistoryEntry is an immutable audit record of one status change.
// PreviousStatus is nil only for the creation entry.
type HistoryEntry struct {
	ID             int64
	TicketID       string
	PreviousStatus *TicketStatus
	NewStatus      TicketStatus
	Note           string
	ActorID        *string
	OccurredAt     time.Time
}
