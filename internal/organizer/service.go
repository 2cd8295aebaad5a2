// Package organizer exposes the event lifecycle operations: creating games,
// listing them, and routing invitee responses through the waterfall engine.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/courtside/internal/event"
	"github.com/louisbranch/courtside/internal/grant"
	"github.com/louisbranch/courtside/internal/platform/id"
	"github.com/louisbranch/courtside/internal/roster"
	"github.com/louisbranch/courtside/internal/storage"
	"github.com/louisbranch/courtside/internal/waterfall"
)

var (
	// ErrEventNotFound indicates the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrPlayerNotFound indicates the referenced player is not registered.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrGrantsDisabled indicates RSVP grant keys are not configured.
	ErrGrantsDisabled = errors.New("rsvp grants are not configured")
)

// Service coordinates the roster and event stores with the waterfall
// engine. Writes to one event are serialized through a per-event lock so
// concurrent responses never observe the same pending invite.
type Service struct {
	roster storage.RosterStore
	events storage.EventStore

	now   func() time.Time
	newID func() (string, error)

	grantCfg     grant.Config
	grantEnabled bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source, primarily for tests.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) { s.newID = newID }
}

// WithGrants enables RSVP grant issuing and verification.
func WithGrants(cfg grant.Config) Option {
	return func(s *Service) {
		s.grantCfg = cfg
		s.grantEnabled = true
	}
}

// New returns a Service backed by the given stores.
func New(rosterStore storage.RosterStore, eventStore storage.EventStore, opts ...Option) (*Service, error) {
	if rosterStore == nil {
		return nil, errors.New("roster store is required")
	}
	if eventStore == nil {
		return nil, errors.New("event store is required")
	}

	s := &Service{
		roster: rosterStore,
		events: eventStore,
		now:    time.Now,
		newID:  id.NewID,
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.grantEnabled {
		if s.grantCfg.Now == nil {
			s.grantCfg.Now = s.now
		}
		if s.grantCfg.NewID == nil {
			s.grantCfg.NewID = s.newID
		}
	}
	return s, nil
}

// CreateEventInput carries the organizer's new-game form.
type CreateEventInput struct {
	OrganizerID   string
	Date          string
	Time          string
	Location      string
	PlayersNeeded int
	PriorityList  []string
}

// CreateEvent validates the input, resolves the priority list against the
// roster, builds the event with its initial invite batch, and persists it.
// Nothing is stored when any step fails.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (event.Event, error) {
	if s == nil {
		return event.Event{}, errors.New("service is not configured")
	}

	if _, err := s.roster.GetPlayer(ctx, input.OrganizerID); err != nil {
		return event.Event{}, mapPlayerErr(err, input.OrganizerID)
	}

	priority := make([]roster.Player, 0, len(input.PriorityList))
	for _, playerID := range input.PriorityList {
		record, err := s.roster.GetPlayer(ctx, playerID)
		if err != nil {
			return event.Event{}, mapPlayerErr(err, playerID)
		}
		priority = append(priority, roster.Player{
			ID:      record.ID,
			Name:    record.Name,
			Contact: record.Contact,
		})
	}

	evt, err := event.Create(event.CreateInput{
		OrganizerID:   input.OrganizerID,
		Date:          input.Date,
		Time:          input.Time,
		Location:      input.Location,
		PlayersNeeded: input.PlayersNeeded,
		Priority:      priority,
	}, s.now, s.newID)
	if err != nil {
		return event.Event{}, err
	}

	if err := s.putEvent(ctx, evt, true); err != nil {
		return event.Event{}, err
	}
	return evt, nil
}

// GetEvent returns one event by id.
func (s *Service) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	if s == nil {
		return event.Event{}, errors.New("service is not configured")
	}
	record, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return event.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return event.Event{}, fmt.Errorf("load event: %w", err)
	}
	return event.Unmarshal(record.Payload)
}

// ListOwnedEvents returns the organizer's events in creation order.
func (s *Service) ListOwnedEvents(ctx context.Context, organizerID string) ([]event.Event, error) {
	if s == nil {
		return nil, errors.New("service is not configured")
	}
	records, err := s.events.ListEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list owned events: %w", err)
	}
	return decodeRecords(records)
}

// ListPendingInvites returns every event holding a pending invite for the
// player, in event creation order.
func (s *Service) ListPendingInvites(ctx context.Context, playerID string) ([]event.Event, error) {
	if s == nil {
		return nil, errors.New("service is not configured")
	}
	records, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	all, err := decodeRecords(records)
	if err != nil {
		return nil, err
	}

	pending := make([]event.Event, 0)
	for _, evt := range all {
		if evt.PendingInviteIndex(playerID) >= 0 {
			pending = append(pending, evt)
		}
	}
	return pending, nil
}

// Respond settles the player's pending invite on the event and persists the
// resulting state. Responses to one event are processed one at a time.
func (s *Service) Respond(ctx context.Context, eventID, playerID string, decision waterfall.Decision) (event.Event, error) {
	if s == nil {
		return event.Event{}, errors.New("service is not configured")
	}

	lock := s.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock so this response observes the previous one.
	evt, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	updated, err := waterfall.Respond(evt, playerID, decision, s.rosterLookup(ctx), s.now)
	if err != nil {
		if errors.Is(err, waterfall.ErrCandidateUnknown) {
			return event.Event{}, fmt.Errorf("%w: %v", ErrPlayerNotFound, err)
		}
		return event.Event{}, err
	}

	if err := s.putEvent(ctx, updated, false); err != nil {
		return event.Event{}, err
	}
	return updated, nil
}

// RegisterPlayer adds a player to the roster.
func (s *Service) RegisterPlayer(ctx context.Context, name, contact string) (roster.Player, error) {
	if s == nil {
		return roster.Player{}, errors.New("service is not configured")
	}

	player, err := roster.CreatePlayer(roster.CreateInput{Name: name, Contact: contact}, s.newID)
	if err != nil {
		return roster.Player{}, err
	}

	record := storage.PlayerRecord{
		ID:        player.ID,
		Name:      player.Name,
		Contact:   player.Contact,
		CreatedAt: s.now().UTC(),
	}
	if err := s.roster.AddPlayer(ctx, record); err != nil {
		return roster.Player{}, fmt.Errorf("store player: %w", err)
	}
	return player, nil
}

// GetPlayer returns one registered player by id.
func (s *Service) GetPlayer(ctx context.Context, playerID string) (roster.Player, error) {
	if s == nil {
		return roster.Player{}, errors.New("service is not configured")
	}
	record, err := s.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return roster.Player{}, mapPlayerErr(err, playerID)
	}
	return roster.Player{ID: record.ID, Name: record.Name, Contact: record.Contact}, nil
}

// ListPlayers returns the roster in registration order.
func (s *Service) ListPlayers(ctx context.Context) ([]roster.Player, error) {
	if s == nil {
		return nil, errors.New("service is not configured")
	}
	records, err := s.roster.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	players := make([]roster.Player, 0, len(records))
	for _, record := range records {
		players = append(players, roster.Player{
			ID:      record.ID,
			Name:    record.Name,
			Contact: record.Contact,
		})
	}
	return players, nil
}

// IssueGrant mints an RSVP grant for an existing pending invite.
func (s *Service) IssueGrant(ctx context.Context, eventID, playerID string) (string, error) {
	if s == nil {
		return "", errors.New("service is not configured")
	}
	if !s.grantEnabled {
		return "", ErrGrantsDisabled
	}

	evt, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return "", err
	}
	if evt.PendingInviteIndex(playerID) < 0 {
		return "", waterfall.ErrNoActiveInvite
	}
	return grant.Mint(evt.ID, playerID, s.grantCfg)
}

// RespondWithGrant verifies an RSVP grant token and settles the invite it
// names.
func (s *Service) RespondWithGrant(ctx context.Context, token string, decision waterfall.Decision) (event.Event, error) {
	if s == nil {
		return event.Event{}, errors.New("service is not configured")
	}
	if !s.grantEnabled {
		return event.Event{}, ErrGrantsDisabled
	}

	claims, err := grant.Validate(token, s.grantCfg)
	if err != nil {
		return event.Event{}, err
	}
	return s.Respond(ctx, claims.EventID, claims.PlayerID, decision)
}

// eventLock returns the mutex serializing writes for one event id.
func (s *Service) eventLock(eventID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[eventID] = lock
	}
	return lock
}

// rosterLookup adapts the roster store to the waterfall's lookup contract.
func (s *Service) rosterLookup(ctx context.Context) waterfall.Lookup {
	return func(playerID string) (roster.Player, bool, error) {
		record, err := s.roster.GetPlayer(ctx, playerID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return roster.Player{}, false, nil
			}
			return roster.Player{}, false, err
		}
		return roster.Player{ID: record.ID, Name: record.Name, Contact: record.Contact}, true, nil
	}
}

func (s *Service) putEvent(ctx context.Context, evt event.Event, created bool) error {
	payload, err := event.Marshal(evt)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	record := storage.EventRecord{
		ID:          evt.ID,
		OrganizerID: evt.OrganizerID,
		Payload:     payload,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !created {
		existing, err := s.events.GetEvent(ctx, evt.ID)
		if err == nil {
			record.CreatedAt = existing.CreatedAt
		}
	}
	if err := s.events.PutEvent(ctx, record); err != nil {
		return fmt.Errorf("store event: %w", err)
	}
	return nil
}

func decodeRecords(records []storage.EventRecord) ([]event.Event, error) {
	events := make([]event.Event, 0, len(records))
	for _, record := range records {
		evt, err := event.Unmarshal(record.Payload)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

func mapPlayerErr(err error, playerID string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return fmt.Errorf("load player: %w", err)
}
