package challenge

import (
	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/common/clock"
	"github.com/quizduel/quizduel/internal/common/uuid"
	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
	challengeRepo "github.com/quizduel/quizduel/internal/repositories/challenge"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	gameService "github.com/quizduel/quizduel/internal/services/game"
)

// Config holds configuration for the challenge service
type Config struct {
	// Repository dependencies
	ChallengeRepo challengeRepo.Repository
	ProfileRepo   profileRepo.Repository

	// GameService creates the friend session once a challenge is accepted
	GameService gameService.Service

	// Event delivery
	Sink events.Sink

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger
}

// ProposeInput contains parameters for proposing a challenge
type ProposeInput struct {
	// ChallengerID is the proposing player
	ChallengerID string

	// ChallengedID is the player being challenged
	ChallengedID string

	// Difficulty the resulting session will use
	Difficulty string
}

// ProposeOutput contains the created challenge
type ProposeOutput struct {
	// Challenge is the persisted pending challenge
	Challenge *models.Challenge

	// Delivered is true when the challenged player received the event live
	Delivered bool
}

// RespondInput contains parameters for responding to a challenge
type RespondInput struct {
	// ChallengeID identifies the challenge being answered
	ChallengeID string

	// PlayerID is the responding player, must be the challenged one
	PlayerID string

	// Accept is true to accept, false to decline
	Accept bool
}

// RespondOutput contains the result of a challenge response
type RespondOutput struct {
	// Challenge is the resolved challenge
	Challenge *models.Challenge

	// Session is the created friend session, nil when declined
	Session *models.Session
}

// ListPendingInput contains parameters for listing a player's pending challenges
type ListPendingInput struct {
	// PlayerID is the challenged player
	PlayerID string
}

// ListPendingOutput contains the pending challenges, oldest first
type ListPendingOutput struct {
	// Challenges addressed to the player and still pending
	Challenges []*models.Challenge
}
