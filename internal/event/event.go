// Package event models a scheduled pickup game and its invitation state.
//
// An Event is created once with a ranked priority list and an initial batch
// of pending invites; from then on only the waterfall engine mutates it, one
// response at a time. Events are never deleted.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/courtside/internal/roster"
)

// InviteStatus is the lifecycle state of a single invite.
type InviteStatus string

// Invite statuses. Pending is the only non-terminal state; an invite moves to
// accepted or declined exactly once and never back.
const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

// Invite is one offer extended to one player for one game.
type Invite struct {
	PlayerID   string       `json:"playerId"`
	PlayerName string       `json:"playerName"`
	Status     InviteStatus `json:"status"`
	SentAt     time.Time    `json:"sentAt"`
}

// Confirmation records an accepted invite, in acceptance order.
type Confirmation struct {
	PlayerID    string    `json:"playerId"`
	PlayerName  string    `json:"playerName"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// Decline records a declined invite, in decline order.
type Decline struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	DeclinedAt time.Time `json:"declinedAt"`
}

// Event is one scheduled game. Date, time, location, the headcount target,
// and the priority list are fixed at creation; the invite, confirmed, and
// declined sequences are append-only (invite entries transition status in
// place but are never removed).
type Event struct {
	ID            string         `json:"id"`
	OrganizerID   string         `json:"organizerId"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Location      string         `json:"location"`
	PlayersNeeded int            `json:"playersNeeded"`
	PriorityList  []string       `json:"priorityList"`
	Invites       []Invite       `json:"invites"`
	Confirmed     []Confirmation `json:"confirmed"`
	Declined      []Decline      `json:"declined"`
}

// Validation errors for event creation.
var (
	ErrOrganizerRequired     = errors.New("organizer is required")
	ErrDateRequired          = errors.New("event date is required")
	ErrTimeRequired          = errors.New("event time is required")
	ErrLocationRequired      = errors.New("event location is required")
	ErrPlayersNeededInvalid  = errors.New("players needed must be at least 1")
	ErrPriorityListEmpty     = errors.New("priority list is required")
	ErrPriorityListDuplicate = errors.New("priority list contains duplicate players")
)

// CreateInput carries the fields needed to schedule a game. Priority holds
// the ranked candidates with profiles already resolved, in backfill order.
type CreateInput struct {
	OrganizerID   string
	Date          string
	Time          string
	Location      string
	PlayersNeeded int
	Priority      []roster.Player
}

// Create validates input and returns a new Event with the initial invite
// batch: the first min(playersNeeded, len(priority)) candidates, in priority
// order, each pending with sentAt = now. Confirmed and declined start empty.
func Create(input CreateInput, now func() time.Time, newID func() (string, error)) (Event, error) {
	if now == nil {
		return Event{}, errors.New("clock is required")
	}
	if newID == nil {
		return Event{}, errors.New("id generator is required")
	}

	organizerID := strings.TrimSpace(input.OrganizerID)
	if organizerID == "" {
		return Event{}, ErrOrganizerRequired
	}
	if strings.TrimSpace(input.Date) == "" {
		return Event{}, ErrDateRequired
	}
	if strings.TrimSpace(input.Time) == "" {
		return Event{}, ErrTimeRequired
	}
	if strings.TrimSpace(input.Location) == "" {
		return Event{}, ErrLocationRequired
	}
	if input.PlayersNeeded < 1 {
		return Event{}, ErrPlayersNeededInvalid
	}
	if len(input.Priority) == 0 {
		return Event{}, ErrPriorityListEmpty
	}

	seen := make(map[string]struct{}, len(input.Priority))
	priorityList := make([]string, 0, len(input.Priority))
	for _, player := range input.Priority {
		if player.ID == "" {
			return Event{}, ErrPriorityListEmpty
		}
		if _, dup := seen[player.ID]; dup {
			return Event{}, ErrPriorityListDuplicate
		}
		seen[player.ID] = struct{}{}
		priorityList = append(priorityList, player.ID)
	}

	id, err := newID()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}

	sentAt := now().UTC()
	batch := len(input.Priority)
	if input.PlayersNeeded < batch {
		batch = input.PlayersNeeded
	}
	invites := make([]Invite, 0, batch)
	for _, player := range input.Priority[:batch] {
		invites = append(invites, Invite{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Status:     InviteStatusPending,
			SentAt:     sentAt,
		})
	}

	return Event{
		ID:            id,
		OrganizerID:   organizerID,
		Date:          strings.TrimSpace(input.Date),
		Time:          strings.TrimSpace(input.Time),
		Location:      strings.TrimSpace(input.Location),
		PlayersNeeded: input.PlayersNeeded,
		PriorityList:  priorityList,
		Invites:       invites,
		Confirmed:     []Confirmation{},
		Declined:      []Decline{},
	}, nil
}

// Clone returns a deep copy so callers can mutate the result without
// aliasing the original's slices.
func (e Event) Clone() Event {
	clone := e
	clone.PriorityList = append([]string(nil), e.PriorityList...)
	clone.Invites = append([]Invite(nil), e.Invites...)
	clone.Confirmed = append([]Confirmation(nil), e.Confirmed...)
	clone.Declined = append([]Decline(nil), e.Declined...)
	return clone
}

// IsFull reports whether the confirmed headcount reached the target.
func (e Event) IsFull() bool {
	return len(e.Confirmed) >= e.PlayersNeeded
}

// HasInvite reports whether the player has ever been invited, in any state.
func (e Event) HasInvite(playerID string) bool {
	for _, invite := range e.Invites {
		if invite.PlayerID == playerID {
			return true
		}
	}
	return false
}

// PendingInviteIndex returns the position of the player's pending invite, or
// -1 when the player was never invited or already responded.
func (e Event) PendingInviteIndex(playerID string) int {
	for i, invite := range e.Invites {
		if invite.PlayerID == playerID && invite.Status == InviteStatusPending {
			return i
		}
	}
	return -1
}

// PendingCount returns the number of outstanding invites.
func (e Event) PendingCount() int {
	count := 0
	for _, invite := range e.Invites {
		if invite.Status == InviteStatusPending {
			count++
		}
	}
	return count
}
