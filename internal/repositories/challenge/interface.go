package challenge

import (
	"context"

	"github.com/quizduel/quizduel/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/quizduel/quizduel/internal/repositories/challenge Repository

// Repository defines the persistence interface for friend challenges
type Repository interface {
	// Save persists a challenge and its pending index
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a challenge by ID
	Get(ctx context.Context, input *GetInput) (*models.Challenge, error)

	// Transition moves a pending challenge to a terminal status. The status
	// check and the write happen atomically, so a second response to the same
	// challenge fails with ErrAlreadyResolved instead of overwriting the first.
	Transition(ctx context.Context, input *TransitionInput) (*models.Challenge, error)

	// ListPendingFor returns the pending challenges addressed to a player,
	// oldest first
	ListPendingFor(ctx context.Context, input *ListPendingForInput) ([]*models.Challenge, error)
}
