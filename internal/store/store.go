// ABOUTME: Store interfaces and data types for resonatr persistence
// ABOUTME: Defines Idea, Event, User, Session and the field masks used for partial updates

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist or is not owned by the caller
var ErrNotFound = errors.New("not found")

// ErrConstraint is returned when the database rejects a write because of a CHECK or UNIQUE constraint
var ErrConstraint = errors.New("constraint violation")

// Idea stages, in workflow order
const (
	StageIdea      = "idea"
	StageScript    = "script"
	StageShoot     = "shoot"
	StageEdit      = "edit"
	StagePublish   = "publish"
	StageCompleted = "completed"
)

// Stages lists every valid idea stage in workflow order.
var Stages = []string{StageIdea, StageScript, StageShoot, StageEdit, StagePublish, StageCompleted}

// Event colors
const (
	ColorSky     = "sky"
	ColorAmber   = "amber"
	ColorViolet  = "violet"
	ColorRose    = "rose"
	ColorEmerald = "emerald"
	ColorOrange  = "orange"
)

// Colors lists every valid event color.
var Colors = []string{ColorSky, ColorAmber, ColorViolet, ColorRose, ColorEmerald, ColorOrange}

// Event statuses
const (
	StatusScheduled = "scheduled"
	StatusPosted    = "posted"
	StatusMissed    = "missed"
)

// Statuses lists every valid event status.
var Statuses = []string{StatusScheduled, StatusPosted, StatusMissed}

// Idea is a piece of content moving through the production workflow.
type Idea struct {
	ID        string
	OwnerID   string
	Title     string
	Platform  string
	Stage     string
	Content   string // rich-text HTML
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdeaFields is the field mask for UpdateIdea. Nil fields are left untouched.
type IdeaFields struct {
	Title     *string
	Platform  *string
	Stage     *string
	Content   *string
	UpdatedAt time.Time
}

// IdeaFilter narrows ListIdeas.
type IdeaFilter struct {
	Stage string // empty for all stages
	Limit int    // <= 0 for no limit
}

// Event is a scheduled calendar entry.
type Event struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string
	Platform    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventFields is the field mask for UpdateEvent. Nil fields are left untouched.
type EventFields struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Color       *string
	Platform    *string
	Status      *string
	UpdatedAt   time.Time
}

// IdeaStore defines owner-scoped persistence for ideas
type IdeaStore interface {
	CreateIdea(ctx context.Context, idea *Idea) error
	GetIdea(ctx context.Context, ownerID, id string) (*Idea, error)
	ListIdeas(ctx context.Context, ownerID string, filter IdeaFilter) ([]*Idea, error)
	CountIdeas(ctx context.Context, ownerID string) (int, error)
	CountIdeasByStage(ctx context.Context, ownerID string) (map[string]int, error)
	UpdateIdea(ctx context.Context, ownerID, id string, fields IdeaFields) error
	DeleteIdea(ctx context.Context, ownerID, id string) error
}

// EventStore defines owner-scoped persistence for calendar events
type EventStore interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, ownerID, id string) (*Event, error)
	ListEvents(ctx context.Context, ownerID string) ([]*Event, error)
	// ListEventsStartingBetween returns events whose start lies in [from, to], both inclusive.
	ListEventsStartingBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*Event, error)
	UpdateEvent(ctx context.Context, ownerID, id string, fields EventFields) error
	DeleteEvent(ctx context.Context, ownerID, id string) error
}

// Store is the full persistence surface used by the server
type Store interface {
	IdeaStore
	EventStore
	AccountStore

	// Close releases any resources held by the store
	Close() error
}
