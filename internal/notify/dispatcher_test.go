package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atende/servicedesk/internal/domain"
	"github.com/atende/servicedesk/internal/observability"
)

type recordedSend struct {
	to      string
	subject string
	body    string
}

type fakeChatSender struct {
	sends []recordedSend
	err   error
}

func (s *fakeChatSender) Send(ctx context.Context, to, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sends = append(s.sends, recordedSend{to: to, body: body})
	return nil
}

type fakeEmailSender struct {
	sends []recordedSend
	err   error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sends = append(s.sends, recordedSend{to: to, subject: subject, body: body})
	return nil
}

type fakeGuard struct {
	reserved map[string]bool
	err      error
}

func (g *fakeGuard) Reserve(ctx context.Context, attemptID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.reserved == nil {
		g.reserved = make(map[string]bool)
	}
	if g.reserved[attemptID] {
		return false, nil
	}
	g.reserved[attemptID] = true
	return true, nil
}

func notification(channel domain.OriginChannel, contact *string, newStatus domain.TicketStatus) Notification {
	return Notification{
		Ticket: domain.Ticket{
			ID:             "tkt-1",
			Status:         newStatus,
			OriginChannel:  channel,
			ContactAddress: contact,
			RequestText:    "printer broken",
		},
		PreviousStatus: domain.TicketStatusRequested,
		NewStatus:      newStatus,
		AttemptID:      "attempt-1",
	}
}

func strPtr(s string) *string { return &s }

func newTestDispatcher(chat ChatSender, email EmailSender, guard AttemptGuard) (*Dispatcher, *observability.Metrics) {
	metrics := observability.NewMetrics()
	return NewDispatcher(chat, email, guard, zap.NewNop(), metrics), metrics
}

func TestDispatch_ChatChannel(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, _ := newTestDispatcher(chat, email, nil)

	d.Dispatch(context.Background(), notification(domain.ChannelChat, strPtr("+5511999999999"), domain.TicketStatusInAttendance))

	require.Len(t, chat.sends, 1)
	assert.Equal(t, "+5511999999999", chat.sends[0].to)
	assert.Contains(t, chat.sends[0].body, "tkt-1")
	assert.Contains(t, chat.sends[0].body, "attendant")
	assert.Empty(t, email.sends)
}

func TestDispatch_EmailChannel(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, _ := newTestDispatcher(chat, email, nil)

	d.Dispatch(context.Background(), notification(domain.ChannelEmail, strPtr("user@example.com"), domain.TicketStatusCompleted))

	require.Len(t, email.sends, 1)
	assert.Equal(t, "user@example.com", email.sends[0].to)
	assert.NotEmpty(t, email.sends[0].subject)
	assert.Empty(t, chat.sends)
}

func TestDispatch_WebChannelIsNoOp(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, metrics := newTestDispatcher(chat, email, nil)

	d.Dispatch(context.Background(), notification(domain.ChannelWeb, nil, domain.TicketStatusCompleted))

	assert.Empty(t, chat.sends)
	assert.Empty(t, email.sends)
	attempts, failures := metrics.NotifySnapshot()
	assert.Equal(t, int64(1), attempts["WEB"])
	assert.Empty(t, failures)
}

func TestDispatch_UnknownChannelIsRecordedNoOp(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, metrics := newTestDispatcher(chat, email, nil)

	d.Dispatch(context.Background(), notification(domain.OriginChannel("CARRIER_PIGEON"), strPtr("somewhere"), domain.TicketStatusCompleted))

	assert.Empty(t, chat.sends)
	assert.Empty(t, email.sends)
	attempts, _ := metrics.NotifySnapshot()
	assert.Equal(t, int64(1), attempts["CARRIER_PIGEON"])
}

func TestDispatch_DeliveryFailureIsSwallowed(t *testing.T) {
	chat := &fakeChatSender{err: errors.New("gateway down")}
	email := &fakeEmailSender{}
	d, metrics := newTestDispatcher(chat, email, nil)

	// Must not panic or propagate; the status change already committed.
	d.Dispatch(context.Background(), notification(domain.ChannelChat, strPtr("+5511999999999"), domain.TicketStatusCompleted))

	_, failures := metrics.NotifySnapshot()
	assert.Equal(t, int64(1), failures["CHAT"])
}

func TestDispatch_MissingContactSkipsDelivery(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, _ := newTestDispatcher(chat, email, nil)

	d.Dispatch(context.Background(), notification(domain.ChannelChat, nil, domain.TicketStatusCompleted))

	assert.Empty(t, chat.sends)
}

func TestDispatch_DuplicateAttemptSuppressed(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, _ := newTestDispatcher(chat, email, &fakeGuard{})

	n := notification(domain.ChannelChat, strPtr("+5511999999999"), domain.TicketStatusCompleted)
	d.Dispatch(context.Background(), n)
	d.Dispatch(context.Background(), n)

	assert.Len(t, chat.sends, 1, "same attempt id must deliver at most once")
}

func TestDispatch_GuardFailureDoesNotBlockDelivery(t *testing.T) {
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	d, _ := newTestDispatcher(chat, email, &fakeGuard{err: errors.New("redis down")})

	d.Dispatch(context.Background(), notification(domain.ChannelChat, strPtr("+5511999999999"), domain.TicketStatusCompleted))

	assert.Len(t, chat.sends, 1)
}

func TestRenderMessage_TemplateLookup(t *testing.T) {
	msg := RenderMessage("tkt-9", domain.TicketStatusCancelled)
	assert.Contains(t, msg.Body, "tkt-9")
	assert.Contains(t, strings.ToLower(msg.Body), "cancelled")
}

func TestRenderMessage_FallbackForUnmappedStatus(t *testing.T) {
	msg := RenderMessage("tkt-9", domain.TicketStatus("ON_HOLD"))
	assert.Contains(t, msg.Body, "ON_HOLD")
	assert.NotEmpty(t, msg.Subject)
}
