package waiting

import (
	"github.com/quizduel/quizduel/internal/models"
)

// UpsertInput contains parameters for creating or resetting a waiting entry
type UpsertInput struct {
	// Entry is the full waiting entry to persist
	Entry *models.WaitingEntry
}

// GetInput contains parameters for retrieving a waiting entry
type GetInput struct {
	// PlayerID identifies the waiting player
	PlayerID string
}

// DeleteInput contains parameters for removing a waiting entry
type DeleteInput struct {
	// PlayerID identifies the waiting player
	PlayerID string
}

// ClaimMatchInput contains parameters for the atomic pairing attempt
type ClaimMatchInput struct {
	// PlayerID is the player requesting a match
	PlayerID string

	// Difficulty restricts the claim to entries with the same difficulty
	Difficulty string
}
