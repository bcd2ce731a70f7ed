// Package store provides persistent storage for resonatr using SQLite.
//
// # Architecture
//
// The store package exposes narrow interfaces per concern:
//
//   - IdeaStore: content ideas and their workflow stage
//   - EventStore: calendar events
//   - AccountStore: users and browser sessions
//
// SQLiteStore implements all of them in a single struct. Every idea and event
// method takes the owner's user ID and scopes its SQL by it, so a row that
// belongs to someone else is indistinguishable from a missing row.
//
// # Partial Updates
//
// UpdateIdea and UpdateEvent take a field mask (IdeaFields, EventFields) whose
// nil pointers leave the column untouched. updated_at is always written.
//
// # Timestamps
//
// Times are stored as fixed-width UTC text (see timeLayout) so that string
// comparison in SQL matches chronological order. Range queries on events rely
// on this.
//
// # Error Handling
//
//   - ErrNotFound: row missing or not owned by the caller
//   - ErrConstraint: a CHECK or UNIQUE constraint rejected the write
//   - ErrEmailExists: signup with an email that is already registered
//   - ErrSessionNotFound: session missing or expired
//
// # Testing
//
// Use NewSQLiteStore(filepath.Join(t.TempDir(), "test.db")) for tests against
// real SQLite. ":memory:" is supported and pins the pool to one connection.
package store
