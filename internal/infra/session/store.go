// Package session keeps per-visitor flow state (booking selection, admin
// console) between page requests.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store saves JSON-encodable values under a session id.
type Store interface {
	// Load decodes the value stored under id into v. It reports false when
	// nothing is stored or the entry expired.
	Load(ctx context.Context, id string, v any) (bool, error)
	Save(ctx context.Context, id string, v any) error
	Delete(ctx context.Context, id string) error
	// Lock takes the exclusive lock on id so that one request at a time
	// runs a transition. ok is false when another request holds it. An
	// unreleased lock lapses after ttl.
	Lock(ctx context.Context, id string, ttl time.Duration) (release func(), ok bool, err error)
}

func NewID() string {
	return uuid.NewString()
}

// ValidID rejects anything that is not a session id we could have issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
