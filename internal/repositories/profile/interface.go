package profile

import (
	"context"

	"github.com/quizduel/quizduel/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/quizduel/quizduel/internal/repositories/profile Repository

// Repository defines the read side of the external identity/profile store
type Repository interface {
	// Save persists a profile
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a profile by player ID
	Get(ctx context.Context, input *GetInput) (*models.Profile, error)
}
