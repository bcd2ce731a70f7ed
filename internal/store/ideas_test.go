// ABOUTME: Tests for IdeaStore methods against a real SQLite database
// ABOUTME: Covers owner scoping, field-mask updates, filters, and counts

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIdea_FillsDefaults(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	idea := &Idea{OwnerID: "user-1", Title: "Morning routine vlog", Platform: "YouTube"}
	require.NoError(t, s.CreateIdea(ctx, idea))

	assert.NotEmpty(t, idea.ID)
	assert.Equal(t, StageIdea, idea.Stage)
	assert.False(t, idea.CreatedAt.IsZero())
	assert.Equal(t, idea.CreatedAt, idea.UpdatedAt)

	got, err := s.GetIdea(ctx, "user-1", idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning routine vlog", got.Title)
	assert.Equal(t, "YouTube", got.Platform)
	assert.Equal(t, StageIdea, got.Stage)
	assert.True(t, idea.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateIdea_RejectsUnknownStage(t *testing.T) {
	s := setupTestStore(t)

	err := s.CreateIdea(context.Background(), &Idea{OwnerID: "user-1", Title: "x", Stage: "brainstorm"})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestCreateIdea_RejectsEmptyTitle(t *testing.T) {
	s := setupTestStore(t)

	err := s.CreateIdea(context.Background(), &Idea{OwnerID: "user-1", Title: ""})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestGetIdea_ScopedToOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	idea := &Idea{OwnerID: "alice", Title: "Alice's idea"}
	require.NoError(t, s.CreateIdea(ctx, idea))

	_, err := s.GetIdea(ctx, "bob", idea.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetIdea(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListIdeas_NewestFirstAndFiltered(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, stage := range []string{StageIdea, StageScript, StageIdea} {
		require.NoError(t, s.CreateIdea(ctx, &Idea{
			OwnerID:   "alice",
			Title:     []string{"first", "second", "third"}[i],
			Stage:     stage,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "bob", Title: "bob's"}))

	all, err := s.ListIdeas(ctx, "alice", IdeaFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)

	scripts, err := s.ListIdeas(ctx, "alice", IdeaFilter{Stage: StageScript})
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "second", scripts[0].Title)

	limited, err := s.ListIdeas(ctx, "alice", IdeaFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "third", limited[0].Title)
}

func TestListIdeas_EmptyIsNotNil(t *testing.T) {
	s := setupTestStore(t)

	ideas, err := s.ListIdeas(context.Background(), "nobody", IdeaFilter{})
	require.NoError(t, err)
	assert.NotNil(t, ideas)
	assert.Empty(t, ideas)
}

func TestCountIdeas(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	count, err := s.CountIdeas(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "alice", Title: "a"}))
	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "alice", Title: "b"}))
	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "bob", Title: "c"}))

	count, err = s.CountIdeas(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountIdeasByStage(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "alice", Title: "a", Stage: StageEdit}))
	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "alice", Title: "b", Stage: StageEdit}))
	require.NoError(t, s.CreateIdea(ctx, &Idea{OwnerID: "alice", Title: "c", Stage: StagePublish}))

	counts, err := s.CountIdeasByStage(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, counts, len(Stages))
	assert.Equal(t, 2, counts[StageEdit])
	assert.Equal(t, 1, counts[StagePublish])
	assert.Equal(t, 0, counts[StageIdea])
}

func TestUpdateIdea_OnlyTouchesMaskedFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	idea := &Idea{OwnerID: "alice", Title: "Old", Platform: "TikTok", Stage: StageScript, Content: "<p>body</p>"}
	require.NoError(t, s.CreateIdea(ctx, idea))

	later := idea.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.UpdateIdea(ctx, "alice", idea.ID, IdeaFields{Title: strPtr("New"), UpdatedAt: later}))

	got, err := s.GetIdea(ctx, "alice", idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "TikTok", got.Platform)
	assert.Equal(t, StageScript, got.Stage)
	assert.Equal(t, "<p>body</p>", got.Content)
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.True(t, got.CreatedAt.Equal(idea.CreatedAt))
}

func TestUpdateIdea_OtherOwnerIsNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	idea := &Idea{OwnerID: "alice", Title: "Mine"}
	require.NoError(t, s.CreateIdea(ctx, idea))

	err := s.UpdateIdea(ctx, "bob", idea.ID, IdeaFields{Title: strPtr("Stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetIdea(ctx, "alice", idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestDeleteIdea(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	idea := &Idea{OwnerID: "alice", Title: "Doomed"}
	require.NoError(t, s.CreateIdea(ctx, idea))

	assert.ErrorIs(t, s.DeleteIdea(ctx, "bob", idea.ID), ErrNotFound)

	require.NoError(t, s.DeleteIdea(ctx, "alice", idea.ID))
	_, err := s.GetIdea(ctx, "alice", idea.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteIdea(ctx, "alice", idea.ID), ErrNotFound)
}
