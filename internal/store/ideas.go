// ABOUTME: SQLite implementation of IdeaStore
// ABOUTME: All reads and writes are scoped by the owning user's ID

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ensure SQLiteStore implements IdeaStore.
var _ IdeaStore = (*SQLiteStore)(nil)

const ideaColumns = `id, user_id, title, platform, stage, content, created_at, updated_at`

// CreateIdea inserts a new idea. ID and timestamps are filled in when unset.
func (s *SQLiteStore) CreateIdea(ctx context.Context, idea *Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	if idea.UpdatedAt.IsZero() {
		idea.UpdatedAt = idea.CreatedAt
	}
	if idea.Stage == "" {
		idea.Stage = StageIdea
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ideas (`+ideaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, idea.ID, idea.OwnerID, idea.Title, idea.Platform, idea.Stage, idea.Content,
		formatTime(idea.CreatedAt), formatTime(idea.UpdatedAt))
	if err != nil {
		return wrapWriteError("inserting idea", err)
	}

	s.logger.Debug("created idea", "id", idea.ID, "owner", idea.OwnerID)
	return nil
}

// GetIdea retrieves an idea by ID for the given owner.
// Returns ErrNotFound if the idea doesn't exist or belongs to someone else.
func (s *SQLiteStore) GetIdea(ctx context.Context, ownerID, id string) (*Idea, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ideaColumns+`
		FROM ideas
		WHERE id = ? AND user_id = ?
	`, id, ownerID)

	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying idea: %w", err)
	}
	return idea, nil
}

// ListIdeas returns the owner's ideas, newest first.
func (s *SQLiteStore) ListIdeas(ctx context.Context, ownerID string, filter IdeaFilter) ([]*Idea, error) {
	args := []any{ownerID}
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE user_id = ?`

	if filter.Stage != "" {
		query += ` AND stage = ?`
		args = append(args, filter.Stage)
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ideas := []*Idea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// CountIdeas returns how many ideas the owner has.
func (s *SQLiteStore) CountIdeas(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ideas WHERE user_id = ?", ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting ideas: %w", err)
	}
	return count, nil
}

// CountIdeasByStage returns the owner's idea count per stage. Every stage is present
// in the result, with zero for stages that have no ideas.
func (s *SQLiteStore) CountIdeasByStage(ctx context.Context, ownerID string) (map[string]int, error) {
	counts := make(map[string]int, len(Stages))
	for _, stage := range Stages {
		counts[stage] = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT stage, COUNT(*) FROM ideas WHERE user_id = ? GROUP BY stage
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("counting ideas by stage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("scanning stage count: %w", err)
		}
		counts[stage] = n
	}
	return counts, rows.Err()
}

// UpdateIdea applies the non-nil fields to the owner's idea.
// Returns ErrNotFound if no idea matched.
func (s *SQLiteStore) UpdateIdea(ctx context.Context, ownerID, id string, fields IdeaFields) error {
	updatedAt := fields.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	var b updateBuilder
	b.setString("title", fields.Title)
	b.setString("platform", fields.Platform)
	b.setString("stage", fields.Stage)
	b.setString("content", fields.Content)
	b.set("updated_at", formatTime(updatedAt))

	return b.exec(ctx, s.db, "ideas", ownerID, id)
}

// DeleteIdea removes the owner's idea. Returns ErrNotFound if no idea matched.
func (s *SQLiteStore) DeleteIdea(ctx context.Context, ownerID, id string) error {
	return deleteOwned(ctx, s.db, "ideas", ownerID, id)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (*Idea, error) {
	var idea Idea
	var createdAt, updatedAt string
	if err := row.Scan(&idea.ID, &idea.OwnerID, &idea.Title, &idea.Platform, &idea.Stage,
		&idea.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if idea.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if idea.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &idea, nil
}
