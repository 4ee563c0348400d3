package notify

import (
	"fmt"

	"github.com/atende/servicedesk/internal/domain"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	Subject string
	Body    string
}

// statusTemplates maps a ticket's new status to requester-facing copy.
// Lookup is by new status only; an unmapped status falls back to a generic
// message rather than failing the dispatch.
var statusTemplates = map[domain.TicketStatus]Message{
	domain.TicketStatusRequested: {
		Subject: "Your request has been received",
		Body:    "We received your request and it is waiting to be picked up.",
	},
	domain.TicketStatusPendingAttendance: {
		Subject: "Your request is in the queue",
		Body:    "Your request is waiting for an attendant.",
	},
	domain.TicketStatusInAttendance: {
		Subject: "Your request is being handled",
		Body:    "An attendant is now handling your request.",
	},
	domain.TicketStatusCompleted: {
		Subject: "Your request has been completed",
		Body:    "Your request has been completed. Thank you!",
	},
	domain.TicketStatusCancelled: {
		Subject: "Your request has been cancelled",
		Body:    "Your request has been cancelled.",
	},
}

// RenderMessage renders the per-status template, degrading to a generic
// message for unmapped statuses. Never fails.
func RenderMessage(ticketID string, newStatus domain.TicketStatus) Message {
	tpl, ok := statusTemplates[newStatus]
	if !ok {
		tpl = Message{
			Subject: "Your ticket's status changed",
			Body:    fmt.Sprintf("Your ticket's status changed to %s.", newStatus),
		}
	}
	tpl.Body = fmt.Sprintf("[ticket %s] %s", ticketID, tpl.Body)
	return tpl
}
