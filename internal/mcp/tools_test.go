package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/courtside/internal/organizer"
	"github.com/louisbranch/courtside/internal/storage/memory"
)

func newTestService(t *testing.T) *organizer.Service {
	t.Helper()

	n := 0
	svc, err := organizer.New(memory.NewRoster(), memory.NewEvents(),
		organizer.WithClock(func() time.Time {
			return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		}),
		organizer.WithIDGenerator(func() (string, error) {
			n++
			return fmt.Sprintf("id-%d", n), nil
		}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func registerTestPlayer(t *testing.T, svc *organizer.Service, name string) string {
	t.Helper()

	_, _, err := PlayerRegisterHandler(svc)(context.Background(), nil, PlayerRegisterInput{Name: name})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	players, err := svc.ListPlayers(context.Background())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	for _, player := range players {
		if player.Name == name {
			return player.ID
		}
	}
	t.Fatalf("player %s not found after registration", name)
	return ""
}

func TestPlayerRegisterHandler(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, result, err := PlayerRegisterHandler(svc)(context.Background(), nil, PlayerRegisterInput{
		Name:    "Alice",
		Contact: "555-0001",
	})
	if err != nil {
		t.Fatalf("player register: %v", err)
	}
	if result.ID == "" || result.Name != "Alice" || result.Contact != "555-0001" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestEventToolFlow(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	organizerID := registerTestPlayer(t, svc, "Org")
	alice := registerTestPlayer(t, svc, "Alice")
	bruno := registerTestPlayer(t, svc, "Bruno")
	cleo := registerTestPlayer(t, svc, "Cleo")

	_, created, err := EventCreateHandler(svc)(context.Background(), nil, EventCreateInput{
		OrganizerID:   organizerID,
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Court A",
		PlayersNeeded: 2,
		PriorityList:  []string{alice, bruno, cleo},
	})
	if err != nil {
		t.Fatalf("event create: %v", err)
	}
	if len(created.Invites) != 2 || created.Invites[0].Status != "pending" {
		t.Fatalf("unexpected initial invites %+v", created.Invites)
	}
	if created.Full {
		t.Fatal("expected new event not full")
	}

	_, responded, err := EventRespondHandler(svc)(context.Background(), nil, EventRespondInput{
		EventID:  created.ID,
		PlayerID: alice,
		Decision: "decline",
	})
	if err != nil {
		t.Fatalf("event respond: %v", err)
	}
	if len(responded.Invites) != 3 || responded.Invites[2].PlayerID != cleo {
		t.Fatalf("expected backfill invite for Cleo, got %+v", responded.Invites)
	}
	if len(responded.Declined) != 1 {
		t.Fatalf("expected decline entry, got %+v", responded.Declined)
	}

	_, fetched, err := EventGetHandler(svc)(context.Background(), nil, EventGetInput{EventID: created.ID})
	if err != nil {
		t.Fatalf("event get: %v", err)
	}
	if len(fetched.Invites) != 3 {
		t.Fatalf("expected persisted cascade, got %+v", fetched.Invites)
	}

	_, owned, err := EventsOwnedListHandler(svc)(context.Background(), nil, EventListInput{OrganizerID: organizerID})
	if err != nil {
		t.Fatalf("events owned list: %v", err)
	}
	if len(owned.Events) != 1 || owned.Events[0].ID != created.ID {
		t.Fatalf("expected the created event, got %+v", owned.Events)
	}

	_, pending, err := InvitesPendingListHandler(svc)(context.Background(), nil, PendingInvitesInput{PlayerID: bruno})
	if err != nil {
		t.Fatalf("invites pending list: %v", err)
	}
	if len(pending.Events) != 1 {
		t.Fatalf("expected one pending event for Bruno, got %+v", pending.Events)
	}
}

func TestEventRespondHandlerRejectsBadDecision(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, _, err := EventRespondHandler(svc)(context.Background(), nil, EventRespondInput{
		EventID:  "event-1",
		PlayerID: "player-1",
		Decision: "maybe",
	})
	if err == nil {
		t.Fatal("expected decision validation error")
	}
}

func TestGrantHandlersDisabledWithoutKeys(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	if _, _, err := GrantIssueHandler(svc)(context.Background(), nil, GrantIssueInput{
		EventID:  "event-1",
		PlayerID: "player-1",
	}); err == nil {
		t.Fatal("expected grant issue to fail without keys")
	}
}

func TestRosterListResourceHandler(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	registerTestPlayer(t, svc, "Alice")
	registerTestPlayer(t, svc, "Bruno")

	result, err := RosterListResourceHandler(svc)(context.Background(), nil)
	if err != nil {
		t.Fatalf("roster list resource: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected one resource content, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != "roster://list" || content.MIMEType != "application/json" {
		t.Fatalf("unexpected content metadata %+v", content)
	}

	var payload RosterListPayload
	if err := json.Unmarshal([]byte(content.Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Players) != 2 {
		t.Fatalf("expected 2 players, got %+v", payload.Players)
	}
}

func TestNewRequiresService(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestServeRequiresConfiguredServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	if err := (&Server{}).Serve(context.Background()); err == nil {
		t.Fatal("expected error for unconfigured server")
	}
}
