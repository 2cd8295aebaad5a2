// Package storage defines the persistence boundary: record types, store
// interfaces, and the sentinel errors adapters translate into.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates an insert collided with an existing record.
	ErrConflict = errors.New("record already exists")
)

// PlayerRecord is a persisted roster entry. The roster is append-only;
// records are never updated or deleted.
type PlayerRecord struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
}

// EventRecord is a persisted event. Payload holds the event's canonical JSON
// document; the store treats it as opaque. OrganizerID is denormalized from
// the payload solely to index owned-event listings.
type EventRecord struct {
	ID          string
	OrganizerID string
	Payload     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RosterStore persists registered players.
type RosterStore interface {
	// AddPlayer inserts a new player. Returns ErrConflict when the id is
	// already registered.
	AddPlayer(ctx context.Context, record PlayerRecord) error

	// GetPlayer returns the player with the given id or ErrNotFound.
	GetPlayer(ctx context.Context, id string) (PlayerRecord, error)

	// ListPlayers returns all players in registration order.
	ListPlayers(ctx context.Context) ([]PlayerRecord, error)
}

// EventStore persists events.
type EventStore interface {
	// PutEvent inserts or overwrites the record in a single atomic write.
	PutEvent(ctx context.Context, record EventRecord) error

	// GetEvent returns the event with the given id or ErrNotFound.
	GetEvent(ctx context.Context, id string) (EventRecord, error)

	// ListEvents returns all events in creation order.
	ListEvents(ctx context.Context) ([]EventRecord, error)

	// ListEventsByOrganizer returns the organizer's events in creation order.
	ListEventsByOrganizer(ctx context.Context, organizerID string) ([]EventRecord, error)
}
