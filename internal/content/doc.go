// Package content implements the owner-scoped idea and event operations behind the
// resonatr API.
//
// Every exported operation resolves the caller with auth.Resolve before anything
// else and returns ErrUnauthorized, without touching storage, when no identity is
// attached to the context. All reads and writes are filtered by the caller's user ID,
// so another user's record is indistinguishable from a missing one.
//
// # Errors
//
// Operations fail with one of four kinds of error:
//
//   - ErrUnauthorized: no identity in the context
//   - *ValidationError: rejected input, or a write refused by a storage constraint
//   - ErrNotFound: no record with that ID belongs to the caller
//   - *OperationError: any other storage failure; errors.Is(err, ErrOperationFailed)
//     is true and the cause is available through errors.Unwrap for logging
//
// Nothing is retried.
//
// # Partial Updates
//
// IdeaPatch and EventPatch are field masks: nil fields are left untouched and a
// successful update always refreshes UpdatedAt. Timestamps handed out by a service
// strictly increase, even when the wall clock does not move between two calls.
//
// # Recent Events
//
// EventService.ListRecentAroundToday uses calendar days in the configured location,
// from 00:00:00.000 two days ago to 23:59:59.999 two days ahead, inclusive on both
// ends. It is not a rolling 24-hour window.
package content
