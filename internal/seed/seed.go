// Package seed populates a store with demo data: a pickup roster and one
// scheduled game mid-waterfall, for local development against a realistic
// state.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/louisbranch/courtside/internal/organizer"
	"github.com/louisbranch/courtside/internal/waterfall"
)

type samplePlayer struct {
	name    string
	contact string
}

// samplePlayers is the demo roster.
var samplePlayers = []samplePlayer{
	{"Mike Johnson", "555-0101"},
	{"Chris Lee", "555-0102"},
	{"Jordan Smith", "555-0103"},
	{"Alex Davis", "555-0104"},
	{"Sam Wilson", "555-0105"},
	{"Taylor Brown", "555-0106"},
	{"Casey Martinez", "555-0107"},
	{"Drew Anderson", "555-0108"},
	{"Jamie White", "555-0109"},
	{"Morgan Garcia", "555-0110"},
	{"Riley Thompson", "555-0111"},
	{"Avery Moore", "555-0112"},
	{"Quinn Jackson", "555-0113"},
	{"Reese Harris", "555-0114"},
	{"Dakota Clark", "555-0115"},
}

// Run registers the demo roster and creates one game with its first invite
// already declined, so the backfill cascade is visible immediately.
func Run(ctx context.Context, svc *organizer.Service, out io.Writer) error {
	if svc == nil {
		return errors.New("organizer service is required")
	}
	if out == nil {
		out = io.Discard
	}

	playerIDs := make([]string, 0, len(samplePlayers))
	for _, sample := range samplePlayers {
		player, err := svc.RegisterPlayer(ctx, sample.name, sample.contact)
		if err != nil {
			return fmt.Errorf("register %s: %w", sample.name, err)
		}
		playerIDs = append(playerIDs, player.ID)
	}
	fmt.Fprintf(out, "registered %d players\n", len(playerIDs))

	evt, err := svc.CreateEvent(ctx, organizer.CreateEventInput{
		OrganizerID:   playerIDs[0],
		Date:          "2024-06-01",
		Time:          "18:00",
		Location:      "Riverside Court",
		PlayersNeeded: 6,
		PriorityList:  playerIDs[1:11],
	})
	if err != nil {
		return fmt.Errorf("create demo game: %w", err)
	}
	fmt.Fprintf(out, "created game %s with %d invites\n", evt.ID, len(evt.Invites))

	// Decline the top invite so the seeded game shows a backfill in flight.
	updated, err := svc.Respond(ctx, evt.ID, evt.Invites[0].PlayerID, waterfall.DecisionDecline)
	if err != nil {
		return fmt.Errorf("decline first invite: %w", err)
	}
	fmt.Fprintf(out, "declined %s, %d invites outstanding\n", updated.Declined[0].PlayerName, updated.PendingCount())

	return nil
}
