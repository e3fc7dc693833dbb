package waiting

import (
	"context"

	"github.com/quizduel/quizduel/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/quizduel/quizduel/internal/repositories/waiting Repository

// Repository defines the persistence interface for matchmaking entries
type Repository interface {
	// Upsert creates or resets a player's waiting entry
	Upsert(ctx context.Context, input *UpsertInput) error

	// Get retrieves a player's waiting entry
	Get(ctx context.Context, input *GetInput) (*models.WaitingEntry, error)

	// Delete removes a player's waiting entry, idempotent
	Delete(ctx context.Context, input *DeleteInput) error

	// ClaimMatch atomically pairs the player with any other waiting entry of the
	// same difficulty. Both entries flip to matched in a single store operation so
	// no concurrent claim can consume either of them. Returns the opponent's
	// entry, or ErrNoMatch when nobody suitable is waiting.
	ClaimMatch(ctx context.Context, input *ClaimMatchInput) (*models.WaitingEntry, error)
}
