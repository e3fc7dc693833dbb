package session

import (
	"context"

	"github.com/quizduel/quizduel/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/quizduel/quizduel/internal/repositories/session Repository

// Repository defines the persistence interface for quiz sessions
type Repository interface {
	// Save persists a session and its lookup indexes
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a session by ID
	Get(ctx context.Context, input *GetInput) (*models.Session, error)

	// Delete removes a session and its lookup indexes
	Delete(ctx context.Context, input *DeleteInput) error

	// FindByPlayer retrieves a player's sessions, most recent first
	FindByPlayer(ctx context.Context, input *FindByPlayerInput) ([]*models.Session, error)

	// FindFinishedBefore returns IDs of finished sessions last updated before the cutoff
	FindFinishedBefore(ctx context.Context, input *FindFinishedBeforeInput) ([]string, error)
}
