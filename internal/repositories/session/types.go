package session

import (
	"time"

	"github.com/quizduel/quizduel/internal/models"
)

// SaveInput contains parameters for saving a session
type SaveInput struct {
	// Session is the full session document to persist
	Session *models.Session
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	// SessionID is the unique identifier of the session
	SessionID string
}

// DeleteInput contains parameters for deleting a session
type DeleteInput struct {
	// SessionID is the unique identifier of the session
	SessionID string
}

// FindByPlayerInput contains parameters for listing a player's sessions
type FindByPlayerInput struct {
	// PlayerID is the participant to look up
	PlayerID string

	// Status filters by session status when set
	Status models.SessionStatus

	// Limit caps the number of sessions returned, 0 means no cap
	Limit int
}

// FindFinishedBeforeInput contains parameters for the janitor scan
type FindFinishedBeforeInput struct {
	// Cutoff excludes sessions updated at or after this time
	Cutoff time.Time
}
