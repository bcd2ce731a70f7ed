// ABOUTME: Error taxonomy for content operations
// ABOUTME: Unauthorized, ValidationError, NotFound, and OperationError wrapping storage causes

package content

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/store"
)

var (
	// ErrUnauthorized is returned when the context carries no identity.
	ErrUnauthorized = auth.ErrUnauthorized

	// ErrNotFound is returned when no record with the ID belongs to the caller.
	ErrNotFound = store.ErrNotFound

	// ErrOperationFailed matches every *OperationError.
	ErrOperationFailed = errors.New("operation failed")
)

// ValidationError reports rejected input for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OperationError is an unexpected storage failure. Error() stays generic so it is
// safe to show to users; the cause is kept for logs.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return "failed to " + e.Op
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrOperationFailed) true for any OperationError.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

// classify maps a store error to the content taxonomy. field names the input most
// likely responsible when the database rejects a write on a constraint.
func classify(logger *slog.Logger, op, field string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrConstraint):
		return &ValidationError{Field: field, Message: "rejected by storage constraints"}
	default:
		logger.Error("storage operation failed", "op", op, "error", err)
		return &OperationError{Op: op, Err: err}
	}
}
