package event

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/courtside/internal/roster"
)

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func staticID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func samplePriority() []roster.Player {
	return []roster.Player{
		{ID: "player-a", Name: "Alice", Contact: "555-0001"},
		{ID: "player-b", Name: "Bruno", Contact: "555-0002"},
		{ID: "player-c", Name: "Cleo", Contact: "555-0003"},
	}
}

func TestCreateBuildsInitialInviteBatch(t *testing.T) {
	t.Parallel()

	evt, err := Create(CreateInput{
		OrganizerID:   "org-1",
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Court A",
		PlayersNeeded: 2,
		Priority:      samplePriority(),
	}, fixedClock, staticID("event-1"))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if evt.ID != "event-1" {
		t.Fatalf("expected generated id, got %q", evt.ID)
	}
	if len(evt.PriorityList) != 3 {
		t.Fatalf("expected full priority list, got %v", evt.PriorityList)
	}
	if len(evt.Invites) != 2 {
		t.Fatalf("expected 2 initial invites, got %d", len(evt.Invites))
	}
	for i, wantID := range []string{"player-a", "player-b"} {
		invite := evt.Invites[i]
		if invite.PlayerID != wantID {
			t.Fatalf("invite %d: expected %s, got %s", i, wantID, invite.PlayerID)
		}
		if invite.Status != InviteStatusPending {
			t.Fatalf("invite %d: expected pending, got %s", i, invite.Status)
		}
		if !invite.SentAt.Equal(fixedClock()) {
			t.Fatalf("invite %d: expected sentAt from clock, got %v", i, invite.SentAt)
		}
	}
	if len(evt.Confirmed) != 0 || len(evt.Declined) != 0 {
		t.Fatalf("expected empty confirmed/declined, got %v / %v", evt.Confirmed, evt.Declined)
	}
}

func TestCreateInviteBatchCappedByPool(t *testing.T) {
	t.Parallel()

	evt, err := Create(CreateInput{
		OrganizerID:   "org-1",
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Court A",
		PlayersNeeded: 2,
		Priority:      samplePriority()[:1],
	}, fixedClock, staticID("event-1"))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if len(evt.Invites) != 1 {
		t.Fatalf("expected pool-capped batch of 1, got %d", len(evt.Invites))
	}
	if evt.Invites[0].PlayerID != "player-a" {
		t.Fatalf("expected first candidate invited, got %s", evt.Invites[0].PlayerID)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	valid := CreateInput{
		OrganizerID:   "org-1",
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Court A",
		PlayersNeeded: 2,
		Priority:      samplePriority(),
	}

	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
	}{
		{"missing organizer", func(in *CreateInput) { in.OrganizerID = " " }, ErrOrganizerRequired},
		{"missing date", func(in *CreateInput) { in.Date = "" }, ErrDateRequired},
		{"missing time", func(in *CreateInput) { in.Time = "  " }, ErrTimeRequired},
		{"missing location", func(in *CreateInput) { in.Location = "" }, ErrLocationRequired},
		{"zero headcount", func(in *CreateInput) { in.PlayersNeeded = 0 }, ErrPlayersNeededInvalid},
		{"negative headcount", func(in *CreateInput) { in.PlayersNeeded = -3 }, ErrPlayersNeededInvalid},
		{"empty priority list", func(in *CreateInput) { in.Priority = nil }, ErrPriorityListEmpty},
		{"duplicate priority entry", func(in *CreateInput) {
			in.Priority = append(in.Priority, in.Priority[0])
		}, ErrPriorityListDuplicate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := valid
			input.Priority = samplePriority()
			tc.mutate(&input)
			_, err := Create(input, fixedClock, staticID("event-1"))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCloneDetachesSlices(t *testing.T) {
	t.Parallel()

	evt, err := Create(CreateInput{
		OrganizerID:   "org-1",
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Court A",
		PlayersNeeded: 2,
		Priority:      samplePriority(),
	}, fixedClock, staticID("event-1"))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	clone := evt.Clone()
	clone.Invites[0].Status = InviteStatusDeclined
	clone.Declined = append(clone.Declined, Decline{PlayerID: "player-a"})

	if evt.Invites[0].Status != InviteStatusPending {
		t.Fatal("mutating the clone changed the original invites")
	}
	if len(evt.Declined) != 0 {
		t.Fatal("mutating the clone changed the original declines")
	}
}

func TestEventStateHelpers(t *testing.T) {
	t.Parallel()

	evt := Event{
		PlayersNeeded: 2,
		Invites: []Invite{
			{PlayerID: "player-a", Status: InviteStatusDeclined},
			{PlayerID: "player-b", Status: InviteStatusPending},
		},
		Confirmed: []Confirmation{{PlayerID: "player-x"}},
	}

	if evt.IsFull() {
		t.Fatal("expected event not full at 1/2 confirmed")
	}
	if !evt.HasInvite("player-a") || evt.HasInvite("player-z") {
		t.Fatal("HasInvite membership wrong")
	}
	if got := evt.PendingInviteIndex("player-b"); got != 1 {
		t.Fatalf("expected pending index 1, got %d", got)
	}
	if got := evt.PendingInviteIndex("player-a"); got != -1 {
		t.Fatalf("expected -1 for declined invite, got %d", got)
	}
	if got := evt.PendingCount(); got != 1 {
		t.Fatalf("expected 1 pending invite, got %d", got)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	evt, err := Create(CreateInput{
		OrganizerID:   "org-1",
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Court A",
		PlayersNeeded: 2,
		Priority:      samplePriority(),
	}, fixedClock, staticID("event-1"))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	evt.Invites[0].Status = InviteStatusAccepted
	evt.Confirmed = append(evt.Confirmed, Confirmation{
		PlayerID:    "player-a",
		PlayerName:  "Alice",
		ConfirmedAt: fixedClock().Add(time.Minute),
	})

	first, err := Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := Unmarshal(first)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second, err := Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal decoded: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("round-trip changed the document:\n%s\n%s", first, second)
	}
}

func TestUnmarshalDefaultsCollections(t *testing.T) {
	t.Parallel()

	decoded, err := Unmarshal([]byte(`{"id":"event-1","organizerId":"org-1","playersNeeded":2}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.PriorityList == nil || decoded.Invites == nil || decoded.Confirmed == nil || decoded.Declined == nil {
		t.Fatal("expected non-nil collections after decode")
	}
}

func TestUnmarshalRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	if _, err := Unmarshal([]byte(`{"playersNeeded":`)); err == nil {
		t.Fatal("expected decode error")
	}
}
