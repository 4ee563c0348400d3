package worker

import (
	"context"

	"github.com/atende/servicedesk/internal/events"
	"github.com/atende/servicedesk/internal/notify"
)

// StartNotificationWorker subscribes the notification dispatcher to
// committed status changes. Handlers run off the caller's goroutine, so the
// transition caller never waits on delivery.
func StartNotificationWorker(dispatcher events.Dispatcher, notifier *notify.Dispatcher) {
	if dispatcher == nil || notifier == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.TicketStatusChangedPayload)
		if !ok {
			return nil
		}
		notifier.Dispatch(ctx, notify.Notification{
			Ticket:         payload.Ticket,
			PreviousStatus: payload.PreviousStatus,
			NewStatus:      payload.NewStatus,
			AttemptID:      payload.AttemptID,
		})
		return nil
	})
}
