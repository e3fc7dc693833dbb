package match

import (
	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/common/clock"
	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
	waitingRepo "github.com/quizduel/quizduel/internal/repositories/waiting"
	gameService "github.com/quizduel/quizduel/internal/services/game"
)

// Presence reports whether a player currently holds a live connection.
// The gateway registry implements it.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_presence.go github.com/quizduel/quizduel/internal/services/match Presence
type Presence interface {
	// Online reports whether the player has an active connection
	Online(playerID string) bool
}

// QueueState describes a player's matchmaking situation
type QueueState string

const (
	// QueueStateIdle means the player is neither queued nor in a matched session
	QueueStateIdle QueueState = "idle"

	// QueueStateWaiting means the player has a live queue entry
	QueueStateWaiting QueueState = "waiting"

	// QueueStateMatched means a session was created for the player
	QueueStateMatched QueueState = "matched"
)

// Config holds configuration for the matchmaking service
type Config struct {
	// Repository dependencies
	WaitingRepo waitingRepo.Repository
	SessionRepo sessionRepo.Repository

	// GameService creates the session once a pair is claimed
	GameService gameService.Service

	// Event delivery
	Sink events.Sink

	// Presence filters ghost opponents out of the queue
	Presence Presence

	// Service dependencies
	Clock  clock.Clock
	Logger *zap.Logger
}

// JoinQueueInput contains parameters for entering the matchmaking queue
type JoinQueueInput struct {
	// PlayerID is the player requesting a match
	PlayerID string

	// Difficulty restricts the match to opponents with the same difficulty
	Difficulty string
}

// JoinQueueOutput reports whether the call produced a match
type JoinQueueOutput struct {
	// Matched is true when an opponent was claimed and a session created
	Matched bool

	// Session is the created session, nil when still waiting
	Session *models.Session
}

// LeaveQueueInput contains parameters for leaving the matchmaking queue
type LeaveQueueInput struct {
	// PlayerID is the player leaving the queue
	PlayerID string
}

// StatusInput contains parameters for the matchmaking status poll
type StatusInput struct {
	// PlayerID is the player being polled for
	PlayerID string
}

// StatusOutput describes the player's current matchmaking situation
type StatusOutput struct {
	// State is idle, waiting or matched
	State QueueState `json:"state"`

	// Difficulty of the live queue entry, when waiting
	Difficulty string `json:"difficulty,omitempty"`

	// OpponentID of the matched session, when matched
	OpponentID string `json:"opponent_id,omitempty"`

	// SessionID of the matched session, when matched
	SessionID string `json:"session_id,omitempty"`
}
