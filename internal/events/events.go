package events

import (
	"context"
	"errors"

	"github.com/quizduel/quizduel/internal/models"
)

// Type names an outbound event delivered to a client connection
type Type string

const (
	TypeAuthenticated      Type = "authenticated"
	TypeMatchFound         Type = "matchFound"
	TypeWaitingForMatch    Type = "waitingForMatch"
	TypeSessionStarted     Type = "sessionStarted"
	TypeNextQuestion       Type = "nextQuestion"
	TypeAnswerAcknowledged Type = "answerAcknowledged"
	TypeSessionFinished    Type = "sessionFinished"
	TypeSessionResults     Type = "sessionResults"
	TypeSessionAborted     Type = "sessionAborted"
	TypeChallengeReceived  Type = "challengeReceived"
	TypeChallengeResponded Type = "challengeResponded"
	TypeError              Type = "error"
)

// ErrPlayerOffline is returned by Publish when the target player has no live connection
var ErrPlayerOffline = errors.New("player has no active connection")

// Event is one outbound message, serialized as-is onto the wire
type Event struct {
	// Type identifies the event
	Type Type `json:"type"`

	// Payload is the event body, shape depends on Type
	Payload any `json:"payload,omitempty"`
}

// Sink delivers events to live connections. The gateway implements it;
// services depend only on this interface.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_sink.go github.com/quizduel/quizduel/internal/events Sink
type Sink interface {
	// Publish delivers an event to a single player's connection.
	// Returns ErrPlayerOffline when the player is not reachable.
	Publish(ctx context.Context, playerID string, event Event) error

	// Broadcast delivers an event to every member of a session room, best effort
	Broadcast(ctx context.Context, sessionID string, event Event)
}

// QuestionView is the client-facing shape of a question. The correct answer
// never leaves the server; grading happens there.
type QuestionView struct {
	ID         string   `json:"id"`
	Prompt     string   `json:"prompt"`
	Answers    []string `json:"answers"`
	Difficulty string   `json:"difficulty"`
}

// NewQuestionView strips a question down to what clients may see
func NewQuestionView(q models.Question) QuestionView {
	return QuestionView{
		ID:         q.ID,
		Prompt:     q.Prompt,
		Answers:    q.Answers,
		Difficulty: q.Difficulty,
	}
}

// QuestionViews converts a question batch to its client-facing shape
func QuestionViews(questions []models.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, NewQuestionView(q))
	}
	return views
}

// AuthenticatedPayload confirms a successful connection handshake
type AuthenticatedPayload struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// MatchFoundPayload carries the created session and its question batch to both players
type MatchFoundPayload struct {
	SessionID  string         `json:"session_id"`
	OpponentID string         `json:"opponent_id"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuestionView `json:"questions"`
}

// WaitingForMatchPayload tells a player they are queued
type WaitingForMatchPayload struct {
	Difficulty string `json:"difficulty"`
}

// SessionStartedPayload announces a friend session to both participants
type SessionStartedPayload struct {
	SessionID  string         `json:"session_id"`
	OpponentID string         `json:"opponent_id"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuestionView `json:"questions"`
}

// NextQuestionPayload advances the room to a new current question
type NextQuestionPayload struct {
	SessionID     string       `json:"session_id"`
	QuestionIndex int          `json:"question_index"`
	Question      QuestionView `json:"question"`
}

// AnswerAcknowledgedPayload reports grading back to the submitter only
type AnswerAcknowledgedPayload struct {
	SessionID     string `json:"session_id"`
	QuestionIndex int    `json:"question_index"`
	IsCorrect     bool   `json:"is_correct"`
}

// SessionFinishedPayload marks the session terminal; results follow separately
type SessionFinishedPayload struct {
	SessionID string `json:"session_id"`
}

// SessionAbortedPayload informs the remaining participant of a forced termination
type SessionAbortedPayload struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ChallengeReceivedPayload delivers a pending challenge to the challenged player
type ChallengeReceivedPayload struct {
	ChallengeID   string `json:"challenge_id"`
	ChallengerID  string `json:"challenger_id"`
	ChallengerTag string `json:"challenger_name,omitempty"`
	Difficulty    string `json:"difficulty"`
}

// ChallengeRespondedPayload informs the challenger of the decision
type ChallengeRespondedPayload struct {
	ChallengeID string `json:"challenge_id"`
	Decision    string `json:"decision"`
}

// ErrorPayload reports a rejected or failed action to the originating connection
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
