// ABOUTME: SQLite implementation of EventStore for calendar events
// ABOUTME: Owner-scoped CRUD plus a start-time range query ordered by start

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ensure SQLiteStore implements EventStore.
var _ EventStore = (*SQLiteStore)(nil)

const eventColumns = `id, user_id, title, description, start_at, end_at, color, platform, status, created_at, updated_at`

// CreateEvent inserts a new event. ID, timestamps, color and status are filled in when unset.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}
	if event.Color == "" {
		event.Color = ColorSky
	}
	if event.Status == "" {
		event.Status = StatusScheduled
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.OwnerID, event.Title, event.Description,
		formatTime(event.Start), formatTime(event.End),
		event.Color, event.Platform, event.Status,
		formatTime(event.CreatedAt), formatTime(event.UpdatedAt))
	if err != nil {
		return wrapWriteError("inserting event", err)
	}

	s.logger.Debug("created event", "id", event.ID, "owner", event.OwnerID)
	return nil
}

// GetEvent retrieves an event by ID for the given owner.
// Returns ErrNotFound if the event doesn't exist or belongs to someone else.
func (s *SQLiteStore) GetEvent(ctx context.Context, ownerID, id string) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = ? AND user_id = ?
	`, id, ownerID)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}
	return event, nil
}

// ListEvents returns all of the owner's events ordered by start time.
func (s *SQLiteStore) ListEvents(ctx context.Context, ownerID string) ([]*Event, error) {
	return s.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = ?
		ORDER BY start_at ASC, id
	`, ownerID)
}

// ListEventsStartingBetween returns the owner's events with from <= start <= to, ordered by start.
func (s *SQLiteStore) ListEventsStartingBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*Event, error) {
	return s.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = ? AND start_at >= ? AND start_at <= ?
		ORDER BY start_at ASC, id
	`, ownerID, formatTime(from), formatTime(to))
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := []*Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// UpdateEvent applies the non-nil fields to the owner's event.
// Returns ErrNotFound if no event matched, ErrConstraint if the result would end before it starts.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, ownerID, id string, fields EventFields) error {
	updatedAt := fields.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	var b updateBuilder
	b.setString("title", fields.Title)
	b.setString("description", fields.Description)
	b.setTime("start_at", fields.Start)
	b.setTime("end_at", fields.End)
	b.setString("color", fields.Color)
	b.setString("platform", fields.Platform)
	b.setString("status", fields.Status)
	b.set("updated_at", formatTime(updatedAt))

	return b.exec(ctx, s.db, "events", ownerID, id)
}

// DeleteEvent removes the owner's event. Returns ErrNotFound if no event matched.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, ownerID, id string) error {
	return deleteOwned(ctx, s.db, "events", ownerID, id)
}

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var start, end, createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &start, &end,
		&e.Color, &e.Platform, &e.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if e.Start, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("parsing start_at: %w", err)
	}
	if e.End, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("parsing end_at: %w", err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
