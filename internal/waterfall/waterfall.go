// Package waterfall implements the invite/response state machine and the
// backfill cascade. Respond is a pure function over an Event value; callers
// own store reads, per-event write serialization, and persistence.
package waterfall

import (
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/courtside/internal/event"
	"github.com/louisbranch/courtside/internal/roster"
)

// Decision is an invitee's answer to a pending invite.
type Decision string

// Valid decisions.
const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

var (
	// ErrNoActiveInvite indicates a response from a player with no pending
	// invite on the event: never invited, already responded, or the decision
	// is being replayed.
	ErrNoActiveInvite = errors.New("no active invite for player")

	// ErrEventFull indicates an accept after the confirmed headcount already
	// reached the target.
	ErrEventFull = errors.New("event is already full")

	// ErrCandidateUnknown indicates a backfill candidate missing from the
	// roster.
	ErrCandidateUnknown = errors.New("backfill candidate not in roster")

	// ErrDecisionInvalid indicates a decision other than accept or decline.
	ErrDecisionInvalid = errors.New("decision must be accept or decline")
)

// ParseDecision validates a wire-level decision string.
func ParseDecision(value string) (Decision, error) {
	switch Decision(value) {
	case DecisionAccept:
		return DecisionAccept, nil
	case DecisionDecline:
		return DecisionDecline, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrDecisionInvalid, value)
	}
}

// Lookup resolves a player profile from the roster. The boolean reports
// whether the player exists; errors are store failures.
type Lookup func(playerID string) (roster.Player, bool, error)

// Respond settles the player's pending invite with the given decision and
// runs the backfill cascade. It returns a new Event value; the input is
// never mutated. On any error the input event is the authoritative state.
//
// Backfill is driven by vacancy: while the confirmed count is below the
// target, the earliest priority-list candidate who has never been invited
// receives a new pending invite. The cascade stops as soon as outstanding
// pending invites cover the remaining vacancies, or the pool is exhausted
// (the event then stays under-filled without error). An accept on a not-full
// event still triggers one backfill invite even when existing pending
// invites already cover the open seats, so more invites can be outstanding
// than open seats; accepts that arrive after the event fills are rejected.
func Respond(evt event.Event, playerID string, decision Decision, lookup Lookup, now func() time.Time) (event.Event, error) {
	if lookup == nil {
		return event.Event{}, errors.New("roster lookup is required")
	}
	if now == nil {
		return event.Event{}, errors.New("clock is required")
	}
	if decision != DecisionAccept && decision != DecisionDecline {
		return event.Event{}, fmt.Errorf("%w: %q", ErrDecisionInvalid, decision)
	}

	idx := evt.PendingInviteIndex(playerID)
	if idx < 0 {
		return event.Event{}, ErrNoActiveInvite
	}
	if decision == DecisionAccept && evt.IsFull() {
		return event.Event{}, ErrEventFull
	}

	next := evt.Clone()
	respondedAt := now().UTC()
	invite := &next.Invites[idx]

	switch decision {
	case DecisionAccept:
		invite.Status = event.InviteStatusAccepted
		next.Confirmed = append(next.Confirmed, event.Confirmation{
			PlayerID:    invite.PlayerID,
			PlayerName:  invite.PlayerName,
			ConfirmedAt: respondedAt,
		})
	case DecisionDecline:
		invite.Status = event.InviteStatusDeclined
		next.Declined = append(next.Declined, event.Decline{
			PlayerID:   invite.PlayerID,
			PlayerName: invite.PlayerName,
			DeclinedAt: respondedAt,
		})
	}

	if err := backfill(&next, lookup, respondedAt); err != nil {
		return event.Event{}, err
	}
	return next, nil
}

// backfill issues pending invites to uninvited candidates, strictly in
// priority-list order, until outstanding invites cover the remaining
// vacancies or the pool runs dry.
func backfill(evt *event.Event, lookup Lookup, sentAt time.Time) error {
	for len(evt.Confirmed) < evt.PlayersNeeded {
		candidateID, ok := nextCandidate(evt)
		if !ok {
			return nil
		}

		player, found, err := lookup(candidateID)
		if err != nil {
			return fmt.Errorf("resolve backfill candidate %s: %w", candidateID, err)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrCandidateUnknown, candidateID)
		}

		evt.Invites = append(evt.Invites, event.Invite{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Status:     event.InviteStatusPending,
			SentAt:     sentAt,
		})

		if evt.PendingCount() >= evt.PlayersNeeded-len(evt.Confirmed) {
			return nil
		}
	}
	return nil
}

// nextCandidate returns the earliest priority-list entry with no invite.
func nextCandidate(evt *event.Event) (string, bool) {
	invited := make(map[string]struct{}, len(evt.Invites))
	for _, invite := range evt.Invites {
		invited[invite.PlayerID] = struct{}{}
	}
	for _, candidateID := range evt.PriorityList {
		if _, ok := invited[candidateID]; !ok {
			return candidateID, true
		}
	}
	return "", false
}
