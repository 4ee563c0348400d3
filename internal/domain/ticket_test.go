package domain

import "testing"

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from TicketStatus
		to   TicketStatus
	}{
		{TicketStatusRequested, TicketStatusPendingAttendance},
		{TicketStatusPendingAttendance, TicketStatusInAttendance},
		{TicketStatusInAttendance, TicketStatusCompleted},
		{TicketStatusInAttendance, TicketStatusCancelled},
	}
	for _, edge := range allowed {
		if !CanTransition(edge.from, edge.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", edge.from, edge.to)
		}
	}
}

func TestCanTransition_RejectsEverythingElse(t *testing.T) {
	statuses := []TicketStatus{
		TicketStatusRequested,
		TicketStatusPendingAttendance,
		TicketStatusInAttendance,
		TicketStatusCompleted,
		TicketStatusCancelled,
	}
	allowed := map[TicketStatus]map[TicketStatus]bool{
		TicketStatusRequested:         {TicketStatusPendingAttendance: true},
		TicketStatusPendingAttendance: {TicketStatusInAttendance: true},
		TicketStatusInAttendance:      {TicketStatusCompleted: true, TicketStatusCancelled: true},
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransition_NoSkipAhead(t *testing.T) {
	// An operator cannot jump straight from REQUESTED to COMPLETED.
	if CanTransition(TicketStatusRequested, TicketStatusCompleted) {
		t.Error("REQUESTED must not transition directly to COMPLETED")
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[TicketStatus]bool{
		TicketStatusRequested:         false,
		TicketStatusPendingAttendance: false,
		TicketStatusInAttendance:      false,
		TicketStatusCompleted:         true,
		TicketStatusCancelled:         true,
	}
	for status, want := range terminal {
		if got := IsTerminal(status); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(TicketStatusInAttendance) {
		t.Error("IN_ATTENDANCE should be a valid status")
	}
	if ValidStatus(TicketStatus("ARCHIVED")) {
		t.Error("ARCHIVED is not a member of the status enum")
	}
}

func TestValidChannel(t *testing.T) {
	for _, channel := range []OriginChannel{ChannelChat, ChannelEmail, ChannelWeb} {
		if !ValidChannel(channel) {
			t.Errorf("ValidChannel(%s) = false, want true", channel)
		}
	}
	if ValidChannel(OriginChannel("CARRIER_PIGEON")) {
		t.Error("unknown channel should not validate")
	}
}

func TestChannelRequiresContact(t *testing.T) {
	if !ChannelRequiresContact(ChannelChat) || !ChannelRequiresContact(ChannelEmail) {
		t.Error("chat and email tickets need a contact address")
	}
	if ChannelRequiresContact(ChannelWeb) {
		t.Error("web tickets observe status via the dashboard, no contact needed")
	}
}
