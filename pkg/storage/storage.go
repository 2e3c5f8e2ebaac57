package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/battle"
)

// Storage defines the interface for live match snapshots.
// Snapshots expire; nothing here outlives a play session.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveMatch stores the latest snapshot of a match
	SaveMatch(ctx context.Context, m *battle.Match) error

	// LoadMatch retrieves a snapshot by ID.
	// Returns nil, nil if the match doesn't exist
	LoadMatch(ctx context.Context, id uuid.UUID) (*battle.Match, error)

	// DeleteMatch removes a snapshot by ID
	DeleteMatch(ctx context.Context, id uuid.UUID) error
}
