// ABOUTME: Owner-scoped idea operations with input validation
// ABOUTME: Resolves the caller first, validates field masks, and maps storage errors

package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/store"
)

// Title length bounds, counted in characters after trimming.
const (
	MinTitleLength = 3
	MaxTitleLength = 100
)

// Platforms offered by the idea form. Platform is stored as a free-form label;
// this list is advisory.
var Platforms = []string{"YouTube", "Instagram", "Twitter", "LinkedIn", "Facebook", "TikTok", "Twitch", "Blog"}

// Invalidator drops cached read views for an owner after a mutation.
type Invalidator interface {
	Invalidate(ownerID string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(string) {}

// IdeaInput is the payload for creating an idea.
type IdeaInput struct {
	Title         string
	Platform      string
	Stage         string
	Content       string
	ContentFormat string // FormatHTML (default) or FormatMarkdown
}

// IdeaPatch is a field mask; nil fields are left unchanged.
type IdeaPatch struct {
	Title         *string
	Platform      *string
	Stage         *string
	Content       *string
	ContentFormat string // applies to Content when set
}

// IdeaFilter narrows List.
type IdeaFilter struct {
	Stage string // empty for all stages
	Limit int    // 0 for no limit
}

// IdeaService implements the idea operations.
type IdeaService struct {
	store  store.IdeaStore
	views  Invalidator
	clock  *clock
	logger *slog.Logger
}

// NewIdeaService creates an IdeaService. views may be nil.
func NewIdeaService(s store.IdeaStore, views Invalidator, logger *slog.Logger) *IdeaService {
	if views == nil {
		views = noopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IdeaService{
		store:  s,
		views:  views,
		clock:  newClock(),
		logger: logger.With("component", "ideas"),
	}
}

// Create validates and stores a new idea and returns its ID.
func (s *IdeaService) Create(ctx context.Context, in IdeaInput) (string, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return "", err
	}

	title, err := validateTitle(in.Title)
	if err != nil {
		return "", err
	}
	platform := strings.TrimSpace(in.Platform)
	if platform == "" {
		return "", &ValidationError{Field: "platform", Message: "platform is required"}
	}
	if in.Stage == "" {
		return "", &ValidationError{Field: "stage", Message: "stage is required"}
	}
	if err := validateStage(in.Stage); err != nil {
		return "", err
	}
	content, err := normalizeContent(in.Content, in.ContentFormat)
	if err != nil {
		return "", err
	}

	now := s.clock.stamp()
	idea := &store.Idea{
		OwnerID:   id.UserID,
		Title:     title,
		Platform:  platform,
		Stage:     in.Stage,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateIdea(ctx, idea); err != nil {
		return "", classify(s.logger, "create idea", "", err)
	}

	s.views.Invalidate(id.UserID)
	s.logger.Info("idea created", "id", idea.ID, "owner", id.UserID)
	return idea.ID, nil
}

// List returns the caller's ideas, newest first. Never nil.
func (s *IdeaService) List(ctx context.Context, filter IdeaFilter) ([]*store.Idea, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Stage != "" {
		if err := validateStage(filter.Stage); err != nil {
			return nil, err
		}
	}
	if filter.Limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "limit must not be negative"}
	}

	ideas, err := s.store.ListIdeas(ctx, id.UserID, store.IdeaFilter{Stage: filter.Stage, Limit: filter.Limit})
	if err != nil {
		return nil, classify(s.logger, "list ideas", "", err)
	}
	return ideas, nil
}

// Count returns how many ideas the caller has.
func (s *IdeaService) Count(ctx context.Context) (int, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return 0, err
	}

	n, err := s.store.CountIdeas(ctx, id.UserID)
	if err != nil {
		return 0, classify(s.logger, "count ideas", "", err)
	}
	return n, nil
}

// CountByStage returns the caller's idea count for every stage.
func (s *IdeaService) CountByStage(ctx context.Context) (map[string]int, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.store.CountIdeasByStage(ctx, id.UserID)
	if err != nil {
		return nil, classify(s.logger, "count ideas by stage", "", err)
	}
	return counts, nil
}

// Get returns one of the caller's ideas.
func (s *IdeaService) Get(ctx context.Context, ideaID string) (*store.Idea, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	idea, err := s.store.GetIdea(ctx, id.UserID, ideaID)
	if err != nil {
		return nil, classify(s.logger, "get idea", "", err)
	}
	return idea, nil
}

// Update applies the non-nil fields of patch to one of the caller's ideas.
func (s *IdeaService) Update(ctx context.Context, ideaID string, patch IdeaPatch) error {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return err
	}

	fields, err := patch.fields()
	if err != nil {
		return err
	}
	fields.UpdatedAt = s.clock.stamp()

	if err := s.store.UpdateIdea(ctx, id.UserID, ideaID, fields); err != nil {
		return classify(s.logger, "update idea", "", err)
	}

	s.views.Invalidate(id.UserID)
	s.logger.Debug("idea updated", "id", ideaID, "owner", id.UserID)
	return nil
}

// Delete removes one of the caller's ideas.
func (s *IdeaService) Delete(ctx context.Context, ideaID string) error {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteIdea(ctx, id.UserID, ideaID); err != nil {
		return classify(s.logger, "delete idea", "", err)
	}

	s.views.Invalidate(id.UserID)
	s.logger.Info("idea deleted", "id", ideaID, "owner", id.UserID)
	return nil
}

// fields validates the patch and converts it to a store field mask.
func (p IdeaPatch) fields() (store.IdeaFields, error) {
	var f store.IdeaFields

	if p.Title != nil {
		title, err := validateTitle(*p.Title)
		if err != nil {
			return f, err
		}
		f.Title = &title
	}
	if p.Platform != nil {
		platform := strings.TrimSpace(*p.Platform)
		if platform == "" {
			return f, &ValidationError{Field: "platform", Message: "platform must not be empty"}
		}
		f.Platform = &platform
	}
	if p.Stage != nil {
		if err := validateStage(*p.Stage); err != nil {
			return f, err
		}
		f.Stage = p.Stage
	}
	if p.Content != nil {
		content, err := normalizeContent(*p.Content, p.ContentFormat)
		if err != nil {
			return f, err
		}
		f.Content = &content
	}
	return f, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "title is required"}
	}
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength || n > MaxTitleLength {
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must be between %d and %d characters", MinTitleLength, MaxTitleLength),
		}
	}
	return title, nil
}

func validateStage(stage string) error {
	if !slices.Contains(store.Stages, stage) {
		return &ValidationError{Field: "stage", Message: fmt.Sprintf("unknown stage %q", stage)}
	}
	return nil
}
