package profile

import (
	"github.com/quizduel/quizduel/internal/models"
)

// SaveInput contains parameters for saving a profile
type SaveInput struct {
	// Profile is the profile to persist
	Profile *models.Profile
}

// GetInput contains parameters for retrieving a profile
type GetInput struct {
	// PlayerID identifies the profile owner
	PlayerID string
}
