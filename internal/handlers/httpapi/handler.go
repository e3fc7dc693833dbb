package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/auth"
	"github.com/quizduel/quizduel/internal/models"
	challengeService "github.com/quizduel/quizduel/internal/services/challenge"
	gameService "github.com/quizduel/quizduel/internal/services/game"
	matchService "github.com/quizduel/quizduel/internal/services/match"
)

// HandlerError is a custom error type for handler construction errors
type HandlerError string

// Error implements the error interface
func (e HandlerError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig           HandlerError = "config cannot be nil"
	ErrNilVerifier         HandlerError = "verifier cannot be nil"
	ErrNilGameService      HandlerError = "game service cannot be nil"
	ErrNilMatchService     HandlerError = "match service cannot be nil"
	ErrNilChallengeService HandlerError = "challenge service cannot be nil"
)

// Config holds configuration for the HTTP API
type Config struct {
	// Verifier validates bearer tokens on every route
	Verifier *auth.Verifier

	// Service dependencies
	GameService      gameService.Service
	MatchService     matchService.Service
	ChallengeService challengeService.Service

	Logger *zap.Logger
}

// Handler serves the REST surface: solo session creation, session
// snapshots, matchmaking status polling and statistics
type Handler struct {
	verifier         *auth.Verifier
	gameService      gameService.Service
	matchService     matchService.Service
	challengeService challengeService.Service
	logger           *zap.Logger
	router           chi.Router
}

// New creates a new HTTP API handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
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

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		verifier:         cfg.Verifier,
		gameService:      cfg.GameService,
		matchService:     cfg.MatchService,
		challengeService: cfg.ChallengeService,
		logger:           logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/games", h.createSoloGame)
		r.Get("/games", h.listGames)
		r.Get("/games/{sessionID}", h.getGame)
		r.Get("/match/status", h.matchStatus)
		r.Get("/challenges", h.listChallenges)
		r.Get("/statistics", h.statistics)
	})
	h.router = r

	return h, nil
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// createSoloGameRequest is the body of POST /api/games
type createSoloGameRequest struct {
	Difficulty string `json:"difficulty"`
}

func (h *Handler) createSoloGame(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req createSoloGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", "body is not valid JSON")
		return
	}

	output, err := h.gameService.CreateSession(r.Context(), &gameService.CreateSessionInput{
		Mode:       models.ModeSolo,
		PlayerA:    claims.PlayerID,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newSessionView(output.Session))
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	sessions, err := h.gameService.ListRecentSessions(r.Context(), &gameService.ListRecentSessionsInput{
		PlayerID: claims.PlayerID,
		Limit:    limit,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	views := make([]*sessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, newSessionView(sess))
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.gameService.GetSession(r.Context(), &gameService.GetSessionInput{SessionID: sessionID})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	// Snapshots are participant-only; the question batch is not public
	if !sess.HasPlayer(claims.PlayerID) {
		h.writeError(w, http.StatusForbidden, "forbidden", "not a participant of this session")
		return
	}

	h.writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *Handler) matchStatus(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	output, err := h.matchService.Status(r.Context(), &matchService.StatusInput{PlayerID: claims.PlayerID})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, output)
}

func (h *Handler) listChallenges(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	output, err := h.challengeService.ListPending(r.Context(), &challengeService.ListPendingInput{
		PlayerID: claims.PlayerID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, output.Challenges)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	output, err := h.gameService.GetStatistics(r.Context(), &gameService.GetStatisticsInput{
		PlayerID: claims.PlayerID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, output)
}

// errorResponse is the JSON shape of every non-2xx reply
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeServiceError maps service errors to HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gameService.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, gameService.ErrNotParticipant):
		h.writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, gameService.ErrMissingDifficulty),
		errors.Is(err, gameService.ErrMissingPlayer),
		errors.Is(err, gameService.ErrInvalidMode),
		errors.Is(err, matchService.ErrMissingDifficulty):
		h.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
