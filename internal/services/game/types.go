package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/common/clock"
	"github.com/quizduel/quizduel/internal/common/uuid"
	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	questionRepo "github.com/quizduel/quizduel/internal/repositories/question"
	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
)

// Config holds configuration for the game service
type Config struct {
	// Number of questions per session
	QuestionCount int

	// Deadline for answering a single question
	QuestionTimeout time.Duration

	// How often the janitor scans for expired finished sessions
	JanitorInterval time.Duration

	// How long finished sessions are kept before deletion
	FinishedRetention time.Duration

	// Repository dependencies
	SessionRepo  sessionRepo.Repository
	QuestionRepo questionRepo.Repository
	ProfileRepo  profileRepo.Repository

	// Event delivery
	Sink events.Sink

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger
}

// CreateSessionInput contains parameters for creating a session
type CreateSessionInput struct {
	// Mode is solo, random or friend
	Mode models.SessionMode

	// PlayerA is the first participant
	PlayerA string

	// PlayerB is the second participant, required unless Mode is solo
	PlayerB string

	// Difficulty the questions are sampled for
	Difficulty string
}

// CreateSessionOutput contains the created session
type CreateSessionOutput struct {
	// Session is the persisted session, including its question batch
	Session *models.Session
}

// JoinSessionInput contains parameters for (re)joining a running session
type JoinSessionInput struct {
	// SessionID is the session to join
	SessionID string

	// PlayerID is the joining participant
	PlayerID string
}

// JoinSessionOutput contains the state a joining connection needs
type JoinSessionOutput struct {
	// Session is the current snapshot
	Session *models.Session
}

// SubmitAnswerInput contains parameters for submitting an answer
type SubmitAnswerInput struct {
	// SessionID is the session being played
	SessionID string

	// PlayerID is the submitting participant
	PlayerID string

	// QuestionIndex is the question the client believes is current
	QuestionIndex int

	// Answer is the submitted answer text
	Answer string
}

// SubmitAnswerOutput contains the grading result for the submitter
type SubmitAnswerOutput struct {
	// IsCorrect reports whether the answer matched the correct one
	IsCorrect bool

	// Advanced is true when this submission moved the session forward
	Advanced bool

	// Finished is true when this submission completed the session
	Finished bool
}

// LeaveSessionInput contains parameters for leaving a session
type LeaveSessionInput struct {
	// SessionID is the session being left
	SessionID string

	// PlayerID is the departing participant
	PlayerID string
}

// AbortActiveSessionsInput contains parameters for disconnect cleanup
type AbortActiveSessionsInput struct {
	// PlayerID is the disconnected player
	PlayerID string
}

// GetSessionInput contains parameters for fetching a snapshot
type GetSessionInput struct {
	// SessionID is the session to fetch
	SessionID string
}

// ListRecentSessionsInput contains parameters for listing sessions
type ListRecentSessionsInput struct {
	// PlayerID is the participant to list sessions for
	PlayerID string

	// Limit caps the number of sessions returned, 0 means no cap
	Limit int
}

// GetStatisticsInput contains parameters for the statistics summary
type GetStatisticsInput struct {
	// PlayerID is the player the statistics are computed for
	PlayerID string
}

// StatisticsRecord summarizes one session from the player's perspective
type StatisticsRecord struct {
	// SessionID identifies the session
	SessionID string `json:"session_id"`

	// Mode of the session
	Mode models.SessionMode `json:"mode"`

	// CorrectAnswers the player got in the session
	CorrectAnswers int `json:"correct_answers"`

	// TotalQuestions in the session
	TotalQuestions int `json:"total_questions"`

	// Outcome from the player's perspective
	Outcome models.Outcome `json:"outcome"`
}

// GetStatisticsOutput contains the statistics summary
type GetStatisticsOutput struct {
	// Records holds one entry per recent session, most recent first
	Records []StatisticsRecord `json:"records"`
}
