package domain

import "time"

// TicketStatus enumerates lifecycle states for service requests.
type TicketStatus string

const (
	TicketStatusRequested         TicketStatus = "REQUESTED"
	TicketStatusPendingAttendance TicketStatus = "PENDING_ATTENDANCE"
	TicketStatusInAttendance      TicketStatus = "IN_ATTENDANCE"
	TicketStatusCompleted         TicketStatus = "COMPLETED"
	TicketStatusCancelled         TicketStatus = "CANCELLED"
)

// OriginChannel identifies the medium a ticket was created through. It is
// fixed at creation and routes notifications for the ticket's lifetime.
type OriginChannel string

const (
	ChannelChat  OriginChannel = "CHAT"
	ChannelEmail OriginChannel = "EMAIL"
	ChannelWeb   OriginChannel = "WEB"
)

// Ticket is the aggregate for a tracked service request.
type Ticket struct {
	ID             string
	Status         TicketStatus
	OriginChannel  OriginChannel
	ContactAddress *string
	RequestText    string
	LastEditedBy   *string
	ProposedTime   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// allowedTransitions is the authoritative edge table for the status machine.
// REQUESTED is the unique start node; COMPLETED and CANCELLED are terminal.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusRequested:         {TicketStatusPendingAttendance},
	TicketStatusPendingAttendance: {TicketStatusInAttendance},
	TicketStatusInAttendance:      {TicketStatusCompleted, TicketStatusCancelled},
	TicketStatusCompleted:         {},
	TicketStatusCancelled:         {},
}

// CanTransition reports whether current to next is an edge in the table.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no outgoing edge exists from the status.
func IsTerminal(status TicketStatus) bool {
	return len(allowedTransitions[status]) == 0
}

// ValidStatus reports whether the value is a member of the status enum.
func ValidStatus(status TicketStatus) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// ValidChannel reports whether the value is a recognized origin channel.
func ValidChannel(channel OriginChannel) bool {
	switch channel {
	case ChannelChat, ChannelEmail, ChannelWeb:
		return true
	}
	return false
}

// ChannelRequiresContact reports whether a contact address is mandatory at
// creation. Web tickets observe status through the dashboard instead.
func ChannelRequiresContact(channel OriginChannel) bool {
	return channel == ChannelChat || channel == ChannelEmail
}
