// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/templog/internal/domain"
)

// Repository defines the interface for durably persisting reading batches
// and per-user preferences.
type Repository interface {
	// SaveReadingBatch stores one completed session's readings as a single
	// logical write: either every entry lands or none does.
	SaveReadingBatch(ctx context.Context, batch *domain.ReadingBatch) error

	// SaveUserLocation stores or replaces the user's sticky location choice.
	SaveUserLocation(ctx context.Context, userID, locationCode string) error

	// GetUserLocation retrieves the user's saved location, or "" if none.
	GetUserLocation(ctx context.Context, userID string) (string, error)

	// ListKnownUsers returns every user who has ever submitted a reading.
	ListKnownUsers(ctx context.Context) ([]string, error)

	// SetMuted records whether a user has opted out of notifications.
	SetMuted(ctx context.Context, userID string, muted bool) error

	// IsMuted reports whether a user has opted out of notifications.
	IsMuted(ctx context.Context, userID string) (bool, error)

	// ListMuted returns every opted-out user; used to restore the in-process
	// muted set on startup.
	ListMuted(ctx context.Context) ([]string, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
