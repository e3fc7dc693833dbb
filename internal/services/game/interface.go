package game

import (
	"context"

	"github.com/quizduel/quizduel/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/quizduel/quizduel/internal/services/game Service

// Service owns the live lifecycle of quiz sessions: creation, question
// progression, answer grading, deadline timers and abort propagation
type Service interface {
	// CreateSession creates a session, persists it and arms the first question timer
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession re-delivers the current question to a (re)connecting participant
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// SubmitAnswer grades and records an answer for the current question
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// LeaveSession aborts a running session on behalf of a departing player
	LeaveSession(ctx context.Context, input *LeaveSessionInput) error

	// AbortActiveSessions aborts all running non-solo sessions of a disconnected player
	AbortActiveSessions(ctx context.Context, input *AbortActiveSessionsInput) error

	// GetSession returns a session snapshot
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// ListRecentSessions returns a player's sessions, most recent first
	ListRecentSessions(ctx context.Context, input *ListRecentSessionsInput) ([]*models.Session, error)

	// GetStatistics summarizes a player's recent sessions
	GetStatistics(ctx context.Context, input *GetStatisticsInput) (*GetStatisticsOutput, error)
}
