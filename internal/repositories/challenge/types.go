package challenge

import (
	"github.com/quizduel/quizduel/internal/models"
)

// SaveInput contains parameters for saving a challenge
type SaveInput struct {
	// Challenge is the full challenge document to persist
	Challenge *models.Challenge
}

// GetInput contains parameters for retrieving a challenge
type GetInput struct {
	// ChallengeID is the unique identifier of the challenge
	ChallengeID string
}

// TransitionInput contains parameters for resolving a pending challenge
type TransitionInput struct {
	// ChallengeID is the unique identifier of the challenge
	ChallengeID string

	// To is the terminal status, accepted or declined
	To models.ChallengeStatus
}

// ListPendingForInput contains parameters for listing pending challenges
type ListPendingForInput struct {
	// ChallengedID is the player the challenges are addressed to
	ChallengedID string
}
