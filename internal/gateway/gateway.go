package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/auth"
	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	challengeService "github.com/quizduel/quizduel/internal/services/challenge"
	gameService "github.com/quizduel/quizduel/internal/services/game"
	matchService "github.com/quizduel/quizduel/internal/services/match"
)

// GatewayError is a custom error type for gateway construction errors
type GatewayError string

// Error implements the error interface
func (e GatewayError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig           GatewayError = "config cannot be nil"
	ErrNilRegistry         GatewayError = "registry cannot be nil"
	ErrNilVerifier         GatewayError = "verifier cannot be nil"
	ErrNilGameService      GatewayError = "game service cannot be nil"
	ErrNilMatchService     GatewayError = "match service cannot be nil"
	ErrNilChallengeService GatewayError = "challenge service cannot be nil"
	ErrNilProfileRepo      GatewayError = "profile repository cannot be nil"
)

// Gateway upgrades HTTP requests to websocket connections and routes client
// actions to the services. One instance serves all connections.
type Gateway struct {
	registry         *Registry
	verifier         *auth.Verifier
	gameService      gameService.Service
	matchService     matchService.Service
	challengeService challengeService.Service
	profileRepo      profileRepo.Repository
	logger           *zap.Logger
	upgrader         websocket.Upgrader
}

// New creates a new gateway
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}

	if cfg.Verifier == nil {
		return nil, ErrNilVerifier
	}

	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}

	if cfg.MatchService == nil {
		return nil, ErrNilMatchService
	}

	if cfg.ChallengeService == nil {
		return nil, ErrNilChallengeService
	}

	if cfg.ProfileRepo == nil {
		return nil, ErrNilProfileRepo
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		registry:         cfg.Registry,
		verifier:         cfg.Verifier,
		gameService:      cfg.GameService,
		matchService:     cfg.MatchService,
		challengeService: cfg.ChallengeService,
		profileRepo:      cfg.ProfileRepo,
		logger:           logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// ServeHTTP upgrades the request and runs the connection until it drops
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(g, conn)
	go c.writePump()
	c.readPump()
}

// disconnect runs connection teardown: the player leaves the matchmaking
// queue, their running multiplayer sessions abort, then the binding goes.
// A connection displaced by a newer one for the same player skips all of it.
func (g *Gateway) disconnect(c *client) {
	if c.playerID == "" {
		return
	}

	if !g.registry.Owns(c.playerID, c) {
		return
	}

	ctx := context.Background()

	if err := g.matchService.LeaveQueue(ctx, &matchService.LeaveQueueInput{PlayerID: c.playerID}); err != nil {
		g.logger.Error("failed to dequeue on disconnect",
			zap.String("player_id", c.playerID),
			zap.Error(err))
	}

	if err := g.gameService.AbortActiveSessions(ctx, &gameService.AbortActiveSessionsInput{PlayerID: c.playerID}); err != nil {
		g.logger.Error("failed to abort sessions on disconnect",
			zap.String("player_id", c.playerID),
			zap.Error(err))
	}

	g.registry.Unbind(c.playerID, c)

	g.logger.Info("connection closed", zap.String("player_id", c.playerID))
}

// handleMessage parses one inbound frame and routes it
func (g *Gateway) handleMessage(c *client, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		g.sendError(c, "bad_message", "message is not valid JSON")
		return
	}

	if env.Action == ActionAuthenticate {
		g.handleAuthenticate(c, env.Payload)
		return
	}

	if c.playerID == "" {
		g.sendError(c, "unauthenticated", "authenticate before sending actions")
		return
	}

	ctx := context.Background()

	switch env.Action {
	case ActionJoinMatchQueue:
		g.handleJoinMatchQueue(ctx, c, env.Payload)
	case ActionLeaveMatchQueue:
		g.handleLeaveMatchQueue(ctx, c)
	case ActionStartSoloSession:
		g.handleStartSoloSession(ctx, c, env.Payload)
	case ActionJoinSession:
		g.handleJoinSession(ctx, c, env.Payload)
	case ActionSubmitAnswer:
		g.handleSubmitAnswer(ctx, c, env.Payload)
	case ActionLeaveSession:
		g.handleLeaveSession(ctx, c, env.Payload)
	case ActionProposeChallenge:
		g.handleProposeChallenge(ctx, c, env.Payload)
	case ActionRespondToChallenge:
		g.handleRespondToChallenge(ctx, c, env.Payload)
	default:
		g.sendError(c, "unknown_action", "unrecognized action: "+env.Action)
	}
}

// handleAuthenticate runs the one-time handshake. A connection authenticates
// at most once; later attempts are rejected without touching the binding.
func (g *Gateway) handleAuthenticate(c *client, raw json.RawMessage) {
	if c.playerID != "" {
		g.sendError(c, "already_authenticated", "connection is already authenticated")
		return
	}

	var payload authenticatePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Token == "" {
		g.sendError(c, "bad_payload", "authenticate requires a token")
		return
	}

	claims, err := g.verifier.Verify(payload.Token)
	if err != nil {
		g.sendError(c, "unauthorized", err.Error())
		return
	}

	c.playerID = claims.PlayerID
	c.displayName = claims.DisplayName
	g.registry.Bind(c.playerID, c)

	ctx := context.Background()

	// Keep the stored profile in step with the token's display name
	if claims.DisplayName != "" {
		if err := g.profileRepo.Save(ctx, &profileRepo.SaveInput{
			Profile: &models.Profile{
				PlayerID:    claims.PlayerID,
				DisplayName: claims.DisplayName,
			},
		}); err != nil {
			g.logger.Warn("failed to refresh profile",
				zap.String("player_id", claims.PlayerID),
				zap.Error(err))
		}
	}

	g.sendEvent(c, events.Event{
		Type: events.TypeAuthenticated,
		Payload: events.AuthenticatedPayload{
			PlayerID:    claims.PlayerID,
			DisplayName: claims.DisplayName,
		},
	})

	// Challenges proposed while the player was offline arrive now
	if err := g.challengeService.DeliverPending(ctx, claims.PlayerID); err != nil {
		g.logger.Warn("failed to deliver pending challenges",
			zap.String("player_id", claims.PlayerID),
			zap.Error(err))
	}

	g.logger.Info("connection authenticated", zap.String("player_id", claims.PlayerID))
}

func (g *Gateway) handleJoinMatchQueue(ctx context.Context, c *client, raw json.RawMessage) {
	var payload joinMatchQueuePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		g.sendError(c, "bad_payload", "joinMatchQueue requires a difficulty")
		return
	}

	output, err := g.matchService.JoinQueue(ctx, &matchService.JoinQueueInput{
		PlayerID:   c.playerID,
		Difficulty: payload.Difficulty,
	})
	if err != nil {
		g.sendError(c, "join_queue_failed", err.Error())
		return
	}

	if output.Matched {
		g.registry.JoinRoom(output.Session.ID, output.Session.PlayerA)
		g.registry.JoinRoom(output.Session.ID, output.Session.PlayerB)
	}
}

func (g *Gateway) handleLeaveMatchQueue(ctx context.Context, c *client) {
	if err := g.matchService.LeaveQueue(ctx, &matchService.LeaveQueueInput{PlayerID: c.playerID}); err != nil {
		g.sendError(c, "leave_queue_failed", err.Error())
	}
}

func (g *Gateway) handleStartSoloSession(ctx context.Context, c *client, raw json.RawMessage) {
	var payload startSoloSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		g.sendError(c, "bad_payload", "startSoloSession requires a difficulty")
		return
	}

	output, err := g.gameService.CreateSession(ctx, &gameService.CreateSessionInput{
		Mode:       models.ModeSolo,
		PlayerA:    c.playerID,
		Difficulty: payload.Difficulty,
	})
	if err != nil {
		g.sendError(c, "create_session_failed", err.Error())
		return
	}

	g.registry.JoinRoom(output.Session.ID, c.playerID)
	g.sendEvent(c, events.Event{
		Type: events.TypeSessionStarted,
		Payload: events.SessionStartedPayload{
			SessionID:  output.Session.ID,
			Difficulty: output.Session.Difficulty,
			Questions:  events.QuestionViews(output.Session.Questions),
		},
	})
}

func (g *Gateway) handleJoinSession(ctx context.Context, c *client, raw json.RawMessage) {
	var payload joinSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.SessionID == "" {
		g.sendError(c, "bad_payload", "joinSession requires a session_id")
		return
	}

	// Room membership first, so a broadcast racing the join is not lost
	g.registry.JoinRoom(payload.SessionID, c.playerID)

	if _, err := g.gameService.JoinSession(ctx, &gameService.JoinSessionInput{
		SessionID: payload.SessionID,
		PlayerID:  c.playerID,
	}); err != nil {
		g.registry.LeaveRoom(payload.SessionID, c.playerID)
		g.sendError(c, "join_session_failed", err.Error())
	}
}

func (g *Gateway) handleSubmitAnswer(ctx context.Context, c *client, raw json.RawMessage) {
	var payload submitAnswerPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.SessionID == "" {
		g.sendError(c, "bad_payload", "submitAnswer requires a session_id and question_index")
		return
	}

	if _, err := g.gameService.SubmitAnswer(ctx, &gameService.SubmitAnswerInput{
		SessionID:     payload.SessionID,
		PlayerID:      c.playerID,
		QuestionIndex: payload.QuestionIndex,
		Answer:        payload.Answer,
	}); err != nil {
		g.sendError(c, "submit_answer_failed", err.Error())
	}
}

func (g *Gateway) handleLeaveSession(ctx context.Context, c *client, raw json.RawMessage) {
	var payload leaveSessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.SessionID == "" {
		g.sendError(c, "bad_payload", "leaveSession requires a session_id")
		return
	}

	err := g.gameService.LeaveSession(ctx, &gameService.LeaveSessionInput{
		SessionID: payload.SessionID,
		PlayerID:  c.playerID,
	})
	g.registry.LeaveRoom(payload.SessionID, c.playerID)
	if err != nil {
		g.sendError(c, "leave_session_failed", err.Error())
	}
}

func (g *Gateway) handleProposeChallenge(ctx context.Context, c *client, raw json.RawMessage) {
	var payload proposeChallengePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ChallengedID == "" {
		g.sendError(c, "bad_payload", "proposeChallenge requires a challenged_id")
		return
	}

	if _, err := g.challengeService.Propose(ctx, &challengeService.ProposeInput{
		ChallengerID: c.playerID,
		ChallengedID: payload.ChallengedID,
		Difficulty:   payload.Difficulty,
	}); err != nil {
		g.sendError(c, "propose_challenge_failed", err.Error())
	}
}

func (g *Gateway) handleRespondToChallenge(ctx context.Context, c *client, raw json.RawMessage) {
	var payload respondToChallengePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ChallengeID == "" {
		g.sendError(c, "bad_payload", "respondToChallenge requires a challenge_id")
		return
	}

	output, err := g.challengeService.Respond(ctx, &challengeService.RespondInput{
		ChallengeID: payload.ChallengeID,
		PlayerID:    c.playerID,
		Accept:      payload.Accept,
	})
	if err != nil {
		g.sendError(c, "respond_challenge_failed", err.Error())
		return
	}

	if output.Session != nil {
		g.registry.JoinRoom(output.Session.ID, output.Session.PlayerA)
		g.registry.JoinRoom(output.Session.ID, output.Session.PlayerB)
	}
}

// sendEvent serializes an event straight onto one connection
func (g *Gateway) sendEvent(c *client, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		g.logger.Error("failed to marshal event",
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return
	}
	c.Send(data)
}

// sendError reports a rejected action back to the originating connection
func (g *Gateway) sendError(c *client, code, message string) {
	g.sendEvent(c, events.Event{
		Type:    events.TypeError,
		Payload: events.ErrorPayload{Code: code, Message: message},
	})
}
