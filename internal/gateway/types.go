package gateway

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/auth"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	challengeService "github.com/quizduel/quizduel/internal/services/challenge"
	gameService "github.com/quizduel/quizduel/internal/services/game"
	matchService "github.com/quizduel/quizduel/internal/services/match"
)

// Config holds configuration for the gateway
type Config struct {
	// Registry tracks live connections and session rooms
	Registry *Registry

	// Verifier validates the authenticate handshake token
	Verifier *auth.Verifier

	// Service dependencies
	GameService      gameService.Service
	MatchService     matchService.Service
	ChallengeService challengeService.Service

	// ProfileRepo is refreshed from token claims on each handshake
	ProfileRepo profileRepo.Repository

	Logger *zap.Logger
}

// Client action names accepted over the socket
const (
	ActionAuthenticate       = "authenticate"
	ActionJoinMatchQueue     = "joinMatchQueue"
	ActionLeaveMatchQueue    = "leaveMatchQueue"
	ActionStartSoloSession   = "startSoloSession"
	ActionJoinSession        = "joinSession"
	ActionSubmitAnswer       = "submitAnswer"
	ActionLeaveSession       = "leaveSession"
	ActionProposeChallenge   = "proposeChallenge"
	ActionRespondToChallenge = "respondToChallenge"
)

// envelope is the inbound message frame
type envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// authenticatePayload carries the handshake token
type authenticatePayload struct {
	Token string `json:"token"`
}

// joinMatchQueuePayload requests a random match
type joinMatchQueuePayload struct {
	Difficulty string `json:"difficulty"`
}

// startSoloSessionPayload requests a single-player session
type startSoloSessionPayload struct {
	Difficulty string `json:"difficulty"`
}

// joinSessionPayload attaches the connection to a session room
type joinSessionPayload struct {
	SessionID string `json:"session_id"`
}

// submitAnswerPayload carries one answer for the current question
type submitAnswerPayload struct {
	SessionID     string `json:"session_id"`
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
}

// leaveSessionPayload detaches from and aborts a session
type leaveSessionPayload struct {
	SessionID string `json:"session_id"`
}

// proposeChallengePayload invites another player to a friend session
type proposeChallengePayload struct {
	ChallengedID string `json:"challenged_id"`
	Difficulty   string `json:"difficulty"`
}

// respondToChallengePayload answers a pending challenge
type respondToChallengePayload struct {
	ChallengeID string `json:"challenge_id"`
	Accept      bool   `json:"accept"`
}
