package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/atende/servicedesk/internal/domain"
)

func TestPublish_InvokesSubscribedHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	var received []Event

	handler := func(ctx context.Context, event Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		wg.Done()
		return nil
	}
	d.Subscribe(EventTicketStatusChanged, handler)
	d.Subscribe(EventTicketStatusChanged, handler)
	d.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		t.Error("created handler must not receive status-changed events")
		return nil
	})

	d.Publish(context.Background(), Event{
		Type:     EventTicketStatusChanged,
		TicketID: "tkt-1",
		Payload: TicketStatusChangedPayload{
			NewStatus: domain.TicketStatusCompleted,
			AttemptID: "attempt-1",
		},
	})

	waitOrFail(t, &wg)
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 2)
	assert.Equal(t, "tkt-1", received[0].TicketID)
}

func TestPublish_HandlerErrorDoesNotPropagate(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, event Event) error {
		defer wg.Done()
		return errors.New("delivery blew up")
	})

	// Publish returns immediately; the failing handler is logged, not raised.
	d.Publish(context.Background(), Event{Type: EventTicketStatusChanged, TicketID: "tkt-1"})
	waitOrFail(t, &wg)
}

func TestPublish_SurvivesCallerContextCancellation(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, event Event) error {
		defer wg.Done()
		// The handler context outlives the publishing request's context.
		assert.NoError(t, ctx.Err())
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Publish(ctx, Event{Type: EventTicketStatusChanged, TicketID: "tkt-1"})
	cancel()
	waitOrFail(t, &wg)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run in time")
	}
}
