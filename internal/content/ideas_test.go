// ABOUTME: Tests for IdeaService against a real SQLite store
// ABOUTME: Covers validation, field-mask updates, owner isolation, and cache invalidation

package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonatr/studio/internal/store"
)

func newIdeaService(t *testing.T) (*IdeaService, *recordingInvalidator) {
	t.Helper()
	views := &recordingInvalidator{}
	return NewIdeaService(setupStore(t), views, nil), views
}

func validIdea() IdeaInput {
	return IdeaInput{
		Title:    "Studio tour",
		Platform: "YouTube",
		Stage:    store.StageScript,
		Content:  "<p>Walk through the <strong>new</strong> setup</p>",
	}
}

func TestIdeaService_CreateThenGet(t *testing.T) {
	ideas, views := newIdeaService(t)
	ctx := asUser(alice)

	id, err := ideas.Create(ctx, validIdea())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := ideas.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, alice, got.OwnerID)
	assert.Equal(t, "Studio tour", got.Title)
	assert.Equal(t, "YouTube", got.Platform)
	assert.Equal(t, store.StageScript, got.Stage)
	assert.Equal(t, "<p>Walk through the <strong>new</strong> setup</p>", got.Content)
	assert.False(t, got.CreatedAt.IsZero())
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, []string{alice}, views.owners)
}

func TestIdeaService_CreateValidation(t *testing.T) {
	ideas, views := newIdeaService(t)
	ctx := asUser(alice)

	tests := []struct {
		name   string
		mutate func(*IdeaInput)
		field  string
	}{
		{"missing title", func(in *IdeaInput) { in.Title = "   " }, "title"},
		{"short title", func(in *IdeaInput) { in.Title = "ab" }, "title"},
		{"long title", func(in *IdeaInput) { in.Title = strings.Repeat("x", MaxTitleLength+1) }, "title"},
		{"missing platform", func(in *IdeaInput) { in.Platform = "" }, "platform"},
		{"missing stage", func(in *IdeaInput) { in.Stage = "" }, "stage"},
		{"unknown stage", func(in *IdeaInput) { in.Stage = "brainstorm" }, "stage"},
		{"empty content", func(in *IdeaInput) { in.Content = "<p> </p><br>" }, "content"},
		{"script-only content", func(in *IdeaInput) { in.Content = "<script>alert(1)</script>" }, "content"},
		{"unknown format", func(in *IdeaInput) { in.ContentFormat = "rtf" }, "content_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validIdea()
			tt.mutate(&in)

			_, err := ideas.Create(ctx, in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	count, err := ideas.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, views.owners)
}

func TestIdeaService_CreateTrimsTitleAndCountsRunes(t *testing.T) {
	ideas, _ := newIdeaService(t)
	ctx := asUser(alice)

	in := validIdea()
	in.Title = "  日本語  "
	id, err := ideas.Create(ctx, in)
	require.NoError(t, err)

	got, err := ideas.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "日本語", got.Title)
}

func TestIdeaService_CreateFromMarkdown(t *testing.T) {
	ideas, _ := newIdeaService(t)
	ctx := asUser(alice)

	in := validIdea()
	in.Content = "# Hook\n\nOpen with the **reveal**."
	in.ContentFormat = FormatMarkdown
	id, err := ideas.Create(ctx, in)
	require.NoError(t, err)

	got, err := ideas.Get(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, got.Content, "<h1>Hook</h1>")
	assert.Contains(t, got.Content, "<strong>reveal</strong>")
}

func TestIdeaService_UpdateChangesOnlyTitle(t *testing.T) {
	ideas, views := newIdeaService(t)
	ctx := asUser(alice)
	fixedClock(ideas.clock, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	id, err := ideas.Create(ctx, validIdea())
	require.NoError(t, err)
	before, err := ideas.Get(ctx, id)
	require.NoError(t, err)

	// the wall clock has not moved; updatedAt must still increase
	title := "X marks the spot"
	require.NoError(t, ideas.Update(ctx, id, IdeaPatch{Title: &title}))

	after, err := ideas.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "X marks the spot", after.Title)
	assert.Equal(t, before.Platform, after.Platform)
	assert.Equal(t, before.Stage, after.Stage)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.OwnerID, after.OwnerID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, []string{alice, alice}, views.owners)
}

func TestIdeaService_UpdateValidation(t *testing.T) {
	ideas, _ := newIdeaService(t)
	ctx := asUser(alice)

	id, err := ideas.Create(ctx, validIdea())
	require.NoError(t, err)

	empty := ""
	badStage := "archived"
	blankContent := "<p></p>"

	var vErr *ValidationError
	require.ErrorAs(t, ideas.Update(ctx, id, IdeaPatch{Title: &empty}), &vErr)
	assert.Equal(t, "title", vErr.Field)
	require.ErrorAs(t, ideas.Update(ctx, id, IdeaPatch{Stage: &badStage}), &vErr)
	assert.Equal(t, "stage", vErr.Field)
	require.ErrorAs(t, ideas.Update(ctx, id, IdeaPatch{Content: &blankContent}), &vErr)
	assert.Equal(t, "content", vErr.Field)
	require.ErrorAs(t, ideas.Update(ctx, id, IdeaPatch{Platform: &empty}), &vErr)
	assert.Equal(t, "platform", vErr.Field)
}

func TestIdeaService_EmptyPatchRefreshesUpdatedAt(t *testing.T) {
	ideas, _ := newIdeaService(t)
	ctx := asUser(alice)

	id, err := ideas.Create(ctx, validIdea())
	require.NoError(t, err)
	before, err := ideas.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, ideas.Update(ctx, id, IdeaPatch{}))

	after, err := ideas.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestIdeaService_DeleteThenGet(t *testing.T) {
	ideas, _ := newIdeaService(t)
	ctx := asUser(alice)

	id, err := ideas.Create(ctx, validIdea())
	require.NoError(t, err)

	require.NoError(t, ideas.Delete(ctx, id))
	_, err = ideas.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, ideas.Delete(ctx, id), ErrNotFound)
}

func TestIdeaService_OwnerIsolation(t *testing.T) {
	ideas, _ := newIdeaService(t)
	aliceCtx, bobCtx := asUser(alice), asUser(bob)

	aliceID, err := ideas.Create(aliceCtx, validIdea())
	require.NoError(t, err)
	_, err = ideas.Create(bobCtx, validIdea())
	require.NoError(t, err)

	list, err := ideas.List(aliceCtx, IdeaFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, aliceID, list[0].ID)

	_, err = ideas.Get(bobCtx, aliceID)
	assert.ErrorIs(t, err, ErrNotFound)

	title := "Hijacked"
	assert.ErrorIs(t, ideas.Update(bobCtx, aliceID, IdeaPatch{Title: &title}), ErrNotFound)
	assert.ErrorIs(t, ideas.Delete(bobCtx, aliceID), ErrNotFound)

	got, err := ideas.Get(aliceCtx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "Studio tour", got.Title)
}

func TestIdeaService_ListFilterAndCounts(t *testing.T) {
	ideas, _ := newIdeaService(t)
	ctx := asUser(alice)

	empty, err := ideas.List(ctx, IdeaFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, stage := range []string{store.StageIdea, store.StageEdit, store.StageEdit} {
		in := validIdea()
		in.Stage = stage
		_, err := ideas.Create(ctx, in)
		require.NoError(t, err)
	}

	edits, err := ideas.List(ctx, IdeaFilter{Stage: store.StageEdit})
	require.NoError(t, err)
	assert.Len(t, edits, 2)

	limited, err := ideas.List(ctx, IdeaFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = ideas.List(ctx, IdeaFilter{Stage: "nope"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	count, err := ideas.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	byStage, err := ideas.CountByStage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, byStage[store.StageEdit])
	assert.Equal(t, 1, byStage[store.StageIdea])
	assert.Equal(t, 0, byStage[store.StageCompleted])
}
