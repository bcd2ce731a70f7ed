// ABOUTME: Shared fixtures for content service tests
// ABOUTME: Real SQLite stores, identity contexts, and a call-counting store double

package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/store"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

func setupStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func asUser(userID string) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{UserID: userID})
}

// recordingInvalidator remembers which owners were invalidated.
type recordingInvalidator struct {
	owners []string
}

func (r *recordingInvalidator) Invalidate(ownerID string) {
	r.owners = append(r.owners, ownerID)
}

// fixedClock pins a service clock to t.
func fixedClock(c *clock, t time.Time) {
	c.now = func() time.Time { return t }
}

// countingStore fails the test's expectations if any method is reached.
type countingStore struct {
	calls int
}

var (
	_ store.IdeaStore  = (*countingStore)(nil)
	_ store.EventStore = (*countingStore)(nil)
)

func (c *countingStore) CreateIdea(context.Context, *store.Idea) error { c.calls++; return nil }
func (c *countingStore) GetIdea(context.Context, string, string) (*store.Idea, error) {
	c.calls++
	return &store.Idea{}, nil
}
func (c *countingStore) ListIdeas(context.Context, string, store.IdeaFilter) ([]*store.Idea, error) {
	c.calls++
	return nil, nil
}
func (c *countingStore) CountIdeas(context.Context, string) (int, error) { c.calls++; return 0, nil }
func (c *countingStore) CountIdeasByStage(context.Context, string) (map[string]int, error) {
	c.calls++
	return nil, nil
}
func (c *countingStore) UpdateIdea(context.Context, string, string, store.IdeaFields) error {
	c.calls++
	return nil
}
func (c *countingStore) DeleteIdea(context.Context, string, string) error { c.calls++; return nil }

func (c *countingStore) CreateEvent(context.Context, *store.Event) error { c.calls++; return nil }
func (c *countingStore) GetEvent(context.Context, string, string) (*store.Event, error) {
	c.calls++
	return &store.Event{}, nil
}
func (c *countingStore) ListEvents(context.Context, string) ([]*store.Event, error) {
	c.calls++
	return nil, nil
}
func (c *countingStore) ListEventsStartingBetween(context.Context, string, time.Time, time.Time) ([]*store.Event, error) {
	c.calls++
	return nil, nil
}
func (c *countingStore) UpdateEvent(context.Context, string, string, store.EventFields) error {
	c.calls++
	return nil
}
func (c *countingStore) DeleteEvent(context.Context, string, string) error { c.calls++; return nil }

// failingStore returns err from every idea and event method.
type failingStore struct {
	countingStore
	err error
}

func (f *failingStore) CreateIdea(context.Context, *store.Idea) error { return f.err }
func (f *failingStore) GetIdea(context.Context, string, string) (*store.Idea, error) {
	return nil, f.err
}
func (f *failingStore) ListEvents(context.Context, string) ([]*store.Event, error) {
	return nil, f.err
}
func (f *failingStore) UpdateEvent(context.Context, string, string, store.EventFields) error {
	return f.err
}
