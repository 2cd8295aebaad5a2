// Package sqlite provides SQLite-backed persistence for the roster and
// event stores.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/courtside/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/courtside/internal/storage"
	"github.com/louisbranch/courtside/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists roster and event records in one SQLite database. It
// implements storage.RosterStore and storage.EventStore.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite store at the provided path and applies pending
// schema migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AddPlayer inserts one roster row.
func (s *Store) AddPlayer(ctx context.Context, record storage.PlayerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("player id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO players (id, name, contact, created_at)
VALUES (?, ?, ?, ?)
`, record.ID, record.Name, record.Contact, toMillis(record.CreatedAt))
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// GetPlayer loads one roster row by id.
func (s *Store) GetPlayer(ctx context.Context, id string) (storage.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PlayerRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PlayerRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.PlayerRecord{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, contact, created_at
FROM players
WHERE id = ?
`, id)
	record, err := scanPlayer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PlayerRecord{}, storage.ErrNotFound
		}
		return storage.PlayerRecord{}, fmt.Errorf("get player: %w", err)
	}
	return record, nil
}

// ListPlayers lists roster rows in registration order.
func (s *Store) ListPlayers(ctx context.Context) ([]storage.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, contact, created_at
FROM players
ORDER BY created_at, rowid
`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []storage.PlayerRecord
	for rows.Next() {
		record, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return records, nil
}

// PutEvent inserts or overwrites one event row in a single statement.
func (s *Store) PutEvent(ctx context.Context, record storage.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if len(record.Payload) == 0 {
		return fmt.Errorf("event payload is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO events (id, organizer_id, payload, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    organizer_id = excluded.organizer_id,
    payload = excluded.payload,
    updated_at = excluded.updated_at
`, record.ID, record.OrganizerID, string(record.Payload), toMillis(record.CreatedAt), toMillis(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// GetEvent loads one event row by id.
func (s *Store) GetEvent(ctx context.Context, id string) (storage.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.EventRecord{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, organizer_id, payload, created_at, updated_at
FROM events
WHERE id = ?
`, id)
	record, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EventRecord{}, storage.ErrNotFound
		}
		return storage.EventRecord{}, fmt.Errorf("get event: %w", err)
	}
	return record, nil
}

// ListEvents lists all event rows in creation order.
func (s *Store) ListEvents(ctx context.Context) ([]storage.EventRecord, error) {
	return s.listEvents(ctx, `
SELECT id, organizer_id, payload, created_at, updated_at
FROM events
ORDER BY created_at, rowid
`)
}

// ListEventsByOrganizer lists one organizer's event rows in creation order.
func (s *Store) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]storage.EventRecord, error) {
	organizerID = strings.TrimSpace(organizerID)
	if organizerID == "" {
		return nil, fmt.Errorf("organizer id is required")
	}
	return s.listEvents(ctx, `
SELECT id, organizer_id, payload, created_at, updated_at
FROM events
WHERE organizer_id = ?
ORDER BY created_at, rowid
`, organizerID)
}

func (s *Store) listEvents(ctx context.Context, query string, args ...any) ([]storage.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []storage.EventRecord
	for rows.Next() {
		record, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

func scanPlayer(scan func(...any) error) (storage.PlayerRecord, error) {
	var record storage.PlayerRecord
	var createdAt int64
	if err := scan(&record.ID, &record.Name, &record.Contact, &createdAt); err != nil {
		return storage.PlayerRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

func scanEvent(scan func(...any) error) (storage.EventRecord, error) {
	var record storage.EventRecord
	var payload string
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.OrganizerID, &payload, &createdAt, &updatedAt); err != nil {
		return storage.EventRecord{}, err
	}
	record.Payload = []byte(payload)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
