package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/atende/servicedesk/internal/domain"
	"github.com/atende/servicedesk/internal/observability"
	"github.com/atende/servicedesk/pkg/apperrors"
)

// Notification describes one committed status change to deliver.
type Notification struct {
	Ticket         domain.Ticket
	PreviousStatus domain.TicketStatus
	NewStatus      domain.TicketStatus
	AttemptID      string
}

// strategy delivers a rendered message to the ticket's contact address.
// A nil strategy means the channel needs no outbound delivery.
type strategy func(ctx context.Context, to string, msg Message) error

// Dispatcher routes notifications by origin channel through a strategy
// table. It holds no shared mutable state and runs fully concurrently across
// tickets. Delivery failures are logged, counted, and never propagated; the
// status change they describe has already committed.
type Dispatcher struct {
	strategies map[domain.OriginChannel]strategy
	guard      AttemptGuard
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewDispatcher wires the per-channel strategy table.
func NewDispatcher(chat ChatSender, email EmailSender, guard AttemptGuard, logger *zap.Logger, metrics *observability.Metrics) *Dispatcher {
	d := &Dispatcher{
		guard:   guard,
		logger:  logger,
		metrics: metrics,
	}
	d.strategies = map[domain.OriginChannel]strategy{
		domain.ChannelChat: func(ctx context.Context, to string, msg Message) error {
			return chat.Send(ctx, to, msg.Body)
		},
		domain.ChannelEmail: func(ctx context.Context, to string, msg Message) error {
			return email.Send(ctx, to, msg.Subject, msg.Body)
		},
		domain.ChannelWeb: nil,
	}
	return d
}

// Dispatch delivers at most one message for the notification. Unknown
// channels and missing contact addresses are recorded and skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	channel := n.Ticket.OriginChannel
	d.metrics.RecordNotifyAttempt(string(channel))

	send, known := d.strategies[channel]
	if !known {
		d.logger.Warn("notification for unknown origin channel skipped",
			zap.String("ticket_id", n.Ticket.ID),
			zap.String("origin_channel", string(channel)))
		return
	}
	if send == nil {
		// Web requesters observe status through the dashboard.
		return
	}

	if d.guard != nil {
		ok, err := d.guard.Reserve(ctx, n.AttemptID)
		if err != nil {
			// Guard unavailability must not block delivery.
			d.logger.Warn("attempt guard unavailable, proceeding",
				zap.String("attempt_id", n.AttemptID), zap.Error(err))
		} else if !ok {
			d.logger.Debug("duplicate notification attempt suppressed",
				zap.String("attempt_id", n.AttemptID),
				zap.String("ticket_id", n.Ticket.ID))
			return
		}
	}

	if n.Ticket.ContactAddress == nil || *n.Ticket.ContactAddress == "" {
		d.logger.Warn("ticket has no contact address, skipping delivery",
			zap.String("ticket_id", n.Ticket.ID),
			zap.String("origin_channel", string(channel)))
		return
	}

	msg := RenderMessage(n.Ticket.ID, n.NewStatus)
	if err := send(ctx, *n.Ticket.ContactAddress, msg); err != nil {
		d.metrics.RecordNotifyFailure(string(channel))
		deliveryErr := apperrors.NewDeliveryError(string(channel), err)
		d.logger.Error("notification delivery failed",
			zap.String("ticket_id", n.Ticket.ID),
			zap.String("origin_channel", string(channel)),
			zap.String("new_status", string(n.NewStatus)),
			zap.Error(deliveryErr))
		return
	}

	d.logger.Info("notification delivered",
		zap.String("ticket_id", n.Ticket.ID),
		zap.String("origin_channel", string(channel)),
		zap.String("new_status", string(n.NewStatus)))
}
