// Package store holds the appointment persistence adapters. Three
// interchangeable strategies implement the same contract: a local
// slot-backed store, the same store with a mocked identity, and a
// remote adapter speaking to the sync server.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DCParty/senior-scheduler/internal/model"
)

var (
	// ErrNotFound reports a delete of a nonexistent id. Callers treat
	// it as a non-fatal no-op.
	ErrNotFound = errors.New("appointment not found")

	// ErrNotAuthenticated reports an operation attempted with no
	// signed-in identity.
	ErrNotAuthenticated = errors.New("not signed in")

	// ErrFormat reports an import blob that is not a JSON array of
	// appointment records.
	ErrFormat = errors.New("資料格式錯誤")
)

// ValidationError reports a create candidate with a missing or
// malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// AuthError reports a sign-in failure; identity remains absent.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "sign-in failed: " + e.Reason
}

// NetworkError wraps a failed remote call. Local state is unchanged
// and nothing is retried automatically.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SnapshotFunc receives the full current collection on every change.
type SnapshotFunc func([]model.Appointment)

// Store is the persistence adapter contract. List order is not
// guaranteed; callers re-sort through the view package.
type Store interface {
	List(ctx context.Context) ([]model.Appointment, error)

	// Create validates the draft (title, date and time must all be
	// present), assigns an id and persists durably before returning.
	Create(ctx context.Context, d model.Draft) (model.Appointment, error)

	// Delete removes the record with the given id. A missing id
	// reports ErrNotFound and leaves the collection unchanged.
	Delete(ctx context.Context, id string) error

	// Subscribe registers fn to receive the full collection on every
	// change. It fires once immediately with the current collection.
	// The returned function tears the subscription down.
	Subscribe(ctx context.Context, fn SnapshotFunc) (func(), error)
}

// Authenticator is implemented by the identity-backed strategies.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (model.Identity, error)
	SignOut(ctx context.Context) error

	// Identity reports the current identity, if any.
	Identity() (model.Identity, bool)
}

// Replacer is the destructive whole-collection overwrite used by
// backup import. Only the local strategies support it.
type Replacer interface {
	Replace(ctx context.Context, list []model.Appointment) error
}

func validate(d model.Draft) error {
	if d.Title == "" {
		return &ValidationError{Field: "title"}
	}
	if d.Date == "" {
		return &ValidationError{Field: "date"}
	}
	if d.Time == "" {
		return &ValidationError{Field: "time"}
	}
	// same formats the sync server enforces, so every adapter agrees
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse("15:04", d.Time); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return nil
}
