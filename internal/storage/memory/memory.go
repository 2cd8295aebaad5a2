// Package memory provides in-memory store implementations for tests and
// seed tooling.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/louisbranch/courtside/internal/storage"
)

// Roster is an in-memory storage.RosterStore safe for concurrent use.
type Roster struct {
	mu      sync.Mutex
	players map[string]storage.PlayerRecord
	order   []string
}

// NewRoster returns an empty roster store.
func NewRoster() *Roster {
	return &Roster{players: make(map[string]storage.PlayerRecord)}
}

// AddPlayer inserts a new player record.
func (r *Roster) AddPlayer(ctx context.Context, record storage.PlayerRecord) error {
	if r == nil {
		return errors.New("roster store is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.ID == "" {
		return errors.New("player id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[record.ID]; exists {
		return storage.ErrConflict
	}
	r.players[record.ID] = record
	r.order = append(r.order, record.ID)
	return nil
}

// GetPlayer returns the player with the given id.
func (r *Roster) GetPlayer(ctx context.Context, id string) (storage.PlayerRecord, error) {
	if r == nil {
		return storage.PlayerRecord{}, errors.New("roster store is nil")
	}
	if err := ctx.Err(); err != nil {
		return storage.PlayerRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.players[id]
	if !ok {
		return storage.PlayerRecord{}, storage.ErrNotFound
	}
	return record, nil
}

// ListPlayers returns all players in registration order.
func (r *Roster) ListPlayers(ctx context.Context) ([]storage.PlayerRecord, error) {
	if r == nil {
		return nil, errors.New("roster store is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]storage.PlayerRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.players[id])
	}
	return records, nil
}

// Events is an in-memory storage.EventStore safe for concurrent use.
type Events struct {
	mu     sync.Mutex
	events map[string]storage.EventRecord
	order  []string
}

// NewEvents returns an empty event store.
func NewEvents() *Events {
	return &Events{events: make(map[string]storage.EventRecord)}
}

// PutEvent inserts or overwrites the record.
func (e *Events) PutEvent(ctx context.Context, record storage.EventRecord) error {
	if e == nil {
		return errors.New("event store is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.ID == "" {
		return errors.New("event id is required")
	}

	record.Payload = append([]byte(nil), record.Payload...)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.events[record.ID]; !exists {
		e.order = append(e.order, record.ID)
	}
	e.events[record.ID] = record
	return nil
}

// GetEvent returns the event with the given id.
func (e *Events) GetEvent(ctx context.Context, id string) (storage.EventRecord, error) {
	if e == nil {
		return storage.EventRecord{}, errors.New("event store is nil")
	}
	if err := ctx.Err(); err != nil {
		return storage.EventRecord{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	record, ok := e.events[id]
	if !ok {
		return storage.EventRecord{}, storage.ErrNotFound
	}
	record.Payload = append([]byte(nil), record.Payload...)
	return record, nil
}

// ListEvents returns all events in creation order.
func (e *Events) ListEvents(ctx context.Context) ([]storage.EventRecord, error) {
	if e == nil {
		return nil, errors.New("event store is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	records := make([]storage.EventRecord, 0, len(e.order))
	for _, id := range e.order {
		record := e.events[id]
		record.Payload = append([]byte(nil), record.Payload...)
		records = append(records, record)
	}
	return records, nil
}

// ListEventsByOrganizer returns the organizer's events in creation order.
func (e *Events) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]storage.EventRecord, error) {
	records, err := e.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	owned := records[:0]
	for _, record := range records {
		if record.OrganizerID == organizerID {
			owned = append(owned, record)
		}
	}
	return owned, nil
}
