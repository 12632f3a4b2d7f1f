// Package session provides per-user dialog session storage.
package session

import (
	"context"

	"github.com/ashureev/templog/internal/domain"
)

// Store persists one dialog session per user. It is a conversational cache,
// not the system of record: cross-process durability is optional.
type Store interface {
	// Get retrieves the session for a user, or nil if none is open.
	Get(ctx context.Context, userID string) (*domain.Session, error)

	// Put creates or replaces the session for sess.UserID.
	Put(ctx context.Context, sess *domain.Session) error

	// Clear removes the session for a user. Clearing an absent session is a no-op.
	Clear(ctx context.Context, userID string) error
}
