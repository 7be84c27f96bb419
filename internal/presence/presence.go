// Package presence is the durable identity store: one record per
// username, keyed for lookup by the opaque token issued at login, with
// an isPlaying flag tracking whether the identity is in an ongoing game.
package presence

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches the lookup key.
var ErrNotFound = errors.New("user not found")

// Record is one stored identity.
type Record struct {
	Username  string
	Token     string
	IsPlaying bool
}

// Store defines the persistence interface for identity records.
// Implementations may be backed by sqlite (this package) or memory
// (tests).
type Store interface {
	// GetByToken looks a record up by its issued token.
	GetByToken(ctx context.Context, token string) (Record, error)

	// GetByUsername looks a record up by username.
	GetByUsername(ctx context.Context, username string) (Record, error)

	// Upsert creates or replaces the record for username.
	Upsert(ctx context.Context, username, token string, isPlaying bool) error

	// SetPlaying updates the isPlaying flag for every given token.
	SetPlaying(ctx context.Context, tokens []string, playing bool) error

	// ListAvailable returns every record whose isPlaying flag is false.
	ListAvailable(ctx context.Context) ([]Record, error)
}
