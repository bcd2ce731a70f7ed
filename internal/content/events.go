// ABOUTME: Owner-scoped calendar event operations
// ABOUTME: Applies create defaults, enforces end >= start, and serves the recent-days window

package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/store"
)

// UntitledEvent is stored as the title of an event created or renamed with a blank title.
const UntitledEvent = "(no title)"

// EventInput is the payload for creating an event.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string // defaults to sky
	Platform    string
	Status      string // defaults to scheduled
}

// EventPatch is a field mask; nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Color       *string
	Platform    *string
	Status      *string
}

// EventService implements the event operations.
type EventService struct {
	store      store.EventStore
	views      Invalidator
	location   *time.Location
	windowDays int
	clock      *clock
	logger     *slog.Logger
}

// NewEventService creates an EventService. loc sets the calendar used for day
// boundaries; windowDays <= 0 falls back to DefaultRecentWindowDays.
func NewEventService(s store.EventStore, views Invalidator, loc *time.Location, windowDays int, logger *slog.Logger) *EventService {
	if views == nil {
		views = noopInvalidator{}
	}
	if loc == nil {
		loc = time.Local
	}
	if windowDays <= 0 {
		windowDays = DefaultRecentWindowDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		store:      s,
		views:      views,
		location:   loc,
		windowDays: windowDays,
		clock:      newClock(),
		logger:     logger.With("component", "events"),
	}
}

// today returns the current local date as YYYY-MM-DD.
func (s *EventService) today() string {
	return s.clock.current().In(s.location).Format(time.DateOnly)
}

// Location returns the calendar location used for day boundaries.
func (s *EventService) Location() *time.Location {
	return s.location
}

// Create validates and stores a new event and returns its ID.
func (s *EventService) Create(ctx context.Context, in EventInput) (string, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return "", err
	}

	if in.Start.IsZero() {
		return "", &ValidationError{Field: "start", Message: "start is required"}
	}
	if in.End.IsZero() {
		return "", &ValidationError{Field: "end", Message: "end is required"}
	}
	if in.End.Before(in.Start) {
		return "", &ValidationError{Field: "end", Message: "end must not be before start"}
	}
	color := in.Color
	if color == "" {
		color = store.ColorSky
	}
	if err := validateColor(color); err != nil {
		return "", err
	}
	status := in.Status
	if status == "" {
		status = store.StatusScheduled
	}
	if err := validateStatus(status); err != nil {
		return "", err
	}

	now := s.clock.stamp()
	event := &store.Event{
		OwnerID:     id.UserID,
		Title:       eventTitle(in.Title),
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		Color:       color,
		Platform:    strings.TrimSpace(in.Platform),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return "", classify(s.logger, "create event", "", err)
	}

	s.views.Invalidate(id.UserID)
	s.logger.Info("event created", "id", event.ID, "owner", id.UserID)
	return event.ID, nil
}

// List returns all of the caller's events ordered by start time. Never nil.
func (s *EventService) List(ctx context.Context) ([]*store.Event, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.store.ListEvents(ctx, id.UserID)
	if err != nil {
		return nil, classify(s.logger, "list events", "", err)
	}
	return events, nil
}

// ListRecentAroundToday returns the caller's events that start within the recent
// calendar-day window around today, ordered by start time.
func (s *EventService) ListRecentAroundToday(ctx context.Context) ([]*store.Event, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	from, to := RecentWindow(s.clock.current(), s.location, s.windowDays)
	events, err := s.store.ListEventsStartingBetween(ctx, id.UserID, from, to)
	if err != nil {
		return nil, classify(s.logger, "list recent events", "", err)
	}
	return events, nil
}

// Get returns one of the caller's events.
func (s *EventService) Get(ctx context.Context, eventID string) (*store.Event, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, id.UserID, eventID)
	if err != nil {
		return nil, classify(s.logger, "get event", "", err)
	}
	return event, nil
}

// Update applies the non-nil fields of patch to one of the caller's events. Status
// may move between any two values.
func (s *EventService) Update(ctx context.Context, eventID string, patch EventPatch) error {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return err
	}

	fields, err := patch.fields()
	if err != nil {
		return err
	}
	fields.UpdatedAt = s.clock.stamp()

	// with only one bound supplied, the database check catches an inverted range
	if err := s.store.UpdateEvent(ctx, id.UserID, eventID, fields); err != nil {
		return classify(s.logger, "update event", "end", err)
	}

	s.views.Invalidate(id.UserID)
	s.logger.Debug("event updated", "id", eventID, "owner", id.UserID)
	return nil
}

// Delete removes one of the caller's events.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEvent(ctx, id.UserID, eventID); err != nil {
		return classify(s.logger, "delete event", "", err)
	}

	s.views.Invalidate(id.UserID)
	s.logger.Info("event deleted", "id", eventID, "owner", id.UserID)
	return nil
}

func (p EventPatch) fields() (store.EventFields, error) {
	f := store.EventFields{
		Description: p.Description,
		Start:       p.Start,
		End:         p.End,
	}

	if p.Title != nil {
		title := eventTitle(*p.Title)
		f.Title = &title
	}
	if p.Start != nil && p.Start.IsZero() {
		return f, &ValidationError{Field: "start", Message: "start must be a valid time"}
	}
	if p.End != nil && p.End.IsZero() {
		return f, &ValidationError{Field: "end", Message: "end must be a valid time"}
	}
	if p.Start != nil && p.End != nil && p.End.Before(*p.Start) {
		return f, &ValidationError{Field: "end", Message: "end must not be before start"}
	}
	if p.Color != nil {
		if err := validateColor(*p.Color); err != nil {
			return f, err
		}
		f.Color = p.Color
	}
	if p.Platform != nil {
		platform := strings.TrimSpace(*p.Platform)
		f.Platform = &platform
	}
	if p.Status != nil {
		if err := validateStatus(*p.Status); err != nil {
			return f, err
		}
		f.Status = p.Status
	}
	return f, nil
}

func eventTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return UntitledEvent
	}
	return title
}

func validateColor(color string) error {
	if !slices.Contains(store.Colors, color) {
		return &ValidationError{Field: "color", Message: fmt.Sprintf("unknown color %q", color)}
	}
	return nil
}

func validateStatus(status string) error {
	if !slices.Contains(store.Statuses, status) {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	return nil
}
