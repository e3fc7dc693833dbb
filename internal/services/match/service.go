package match

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/common/clock"
	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
	waitingRepo "github.com/quizduel/quizduel/internal/repositories/waiting"
	gameService "github.com/quizduel/quizduel/internal/services/game"
)

// service implements the Service interface
type service struct {
	waitingRepo waitingRepo.Repository
	sessionRepo sessionRepo.Repository
	gameService gameService.Service
	sink        events.Sink
	presence    Presence
	clock       clock.Clock
	logger      *zap.Logger
}

// New creates a new matchmaking service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.WaitingRepo == nil {
		return nil, ErrNilWaitingRepo
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}

	if cfg.Sink == nil {
		return nil, ErrNilSink
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		waitingRepo: cfg.WaitingRepo,
		sessionRepo: cfg.SessionRepo,
		gameService: cfg.GameService,
		sink:        cfg.Sink,
		presence:    cfg.Presence,
		clock:       cfg.Clock,
		logger:      logger,
	}, nil
}

// JoinQueue queues the player and immediately attempts to claim a waiting
// opponent of the same difficulty. Re-joining with a new difficulty resets
// the player's entry rather than queueing twice.
func (s *service) JoinQueue(ctx context.Context, input *JoinQueueInput) (*JoinQueueOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	if input.Difficulty == "" {
		return nil, ErrMissingDifficulty
	}

	entry := &models.WaitingEntry{
		PlayerID:   input.PlayerID,
		Difficulty: input.Difficulty,
		Status:     models.WaitingStatusWaiting,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.waitingRepo.Upsert(ctx, &waitingRepo.UpsertInput{Entry: entry}); err != nil {
		return nil, err
	}

	for {
		opponent, err := s.waitingRepo.ClaimMatch(ctx, &waitingRepo.ClaimMatchInput{
			PlayerID:   input.PlayerID,
			Difficulty: input.Difficulty,
		})
		if err != nil {
			if errors.Is(err, waitingRepo.ErrNoMatch) {
				return s.stillWaiting(ctx, input)
			}
			return nil, err
		}

		// A claimed entry may belong to a player whose connection died without
		// cleanup. Discard the ghost, restore our own entry and claim again.
		if s.presence != nil && !s.presence.Online(opponent.PlayerID) {
			s.logger.Info("discarding ghost queue entry",
				zap.String("player_id", opponent.PlayerID))

			if err := s.waitingRepo.Delete(ctx, &waitingRepo.DeleteInput{PlayerID: opponent.PlayerID}); err != nil {
				return nil, err
			}
			if err := s.waitingRepo.Upsert(ctx, &waitingRepo.UpsertInput{Entry: entry}); err != nil {
				return nil, err
			}
			continue
		}

		return s.startMatch(ctx, input, opponent)
	}
}

// stillWaiting notifies the player they are queued and returns the no-match output
func (s *service) stillWaiting(ctx context.Context, input *JoinQueueInput) (*JoinQueueOutput, error) {
	if err := s.sink.Publish(ctx, input.PlayerID, events.Event{
		Type:    events.TypeWaitingForMatch,
		Payload: events.WaitingForMatchPayload{Difficulty: input.Difficulty},
	}); err != nil && !errors.Is(err, events.ErrPlayerOffline) {
		s.logger.Warn("failed to deliver waiting notification",
			zap.String("player_id", input.PlayerID),
			zap.Error(err))
	}

	return &JoinQueueOutput{Matched: false}, nil
}

// startMatch creates the session for a claimed pair and notifies both players
func (s *service) startMatch(ctx context.Context, input *JoinQueueInput, opponent *models.WaitingEntry) (*JoinQueueOutput, error) {
	// The opponent waited longer, so they take the first seat
	created, err := s.gameService.CreateSession(ctx, &gameService.CreateSessionInput{
		Mode:       models.ModeRandom,
		PlayerA:    opponent.PlayerID,
		PlayerB:    input.PlayerID,
		Difficulty: input.Difficulty,
	})
	if err != nil {
		return nil, err
	}
	sess := created.Session

	// Both entries are consumed; failures here only delay the next re-queue
	for _, playerID := range []string{input.PlayerID, opponent.PlayerID} {
		if err := s.waitingRepo.Delete(ctx, &waitingRepo.DeleteInput{PlayerID: playerID}); err != nil {
			s.logger.Warn("failed to delete consumed queue entry",
				zap.String("player_id", playerID),
				zap.Error(err))
		}
	}

	s.notifyMatchFound(ctx, sess, input.PlayerID, opponent.PlayerID)
	s.notifyMatchFound(ctx, sess, opponent.PlayerID, input.PlayerID)

	s.logger.Info("match created",
		zap.String("session_id", sess.ID),
		zap.String("player_a", sess.PlayerA),
		zap.String("player_b", sess.PlayerB),
		zap.String("difficulty", sess.Difficulty))

	return &JoinQueueOutput{Matched: true, Session: sess}, nil
}

func (s *service) notifyMatchFound(ctx context.Context, sess *models.Session, playerID, opponentID string) {
	if err := s.sink.Publish(ctx, playerID, events.Event{
		Type: events.TypeMatchFound,
		Payload: events.MatchFoundPayload{
			SessionID:  sess.ID,
			OpponentID: opponentID,
			Difficulty: sess.Difficulty,
			Questions:  events.QuestionViews(sess.Questions),
		},
	}); err != nil {
		// The session exists either way; an offline player recovers via the
		// status poll or by rejoining the session
		s.logger.Warn("failed to deliver match notification",
			zap.String("player_id", playerID),
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}
}

// LeaveQueue removes the player's queue entry, idempotent
func (s *service) LeaveQueue(ctx context.Context, input *LeaveQueueInput) error {
	if input == nil || input.PlayerID == "" {
		return ErrMissingPlayer
	}

	return s.waitingRepo.Delete(ctx, &waitingRepo.DeleteInput{PlayerID: input.PlayerID})
}

// Status reports the player's current matchmaking situation. A player with
// no queue entry but a running random session counts as matched, so a client
// that missed the matchFound event can still find its session by polling.
func (s *service) Status(ctx context.Context, input *StatusInput) (*StatusOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	entry, err := s.waitingRepo.Get(ctx, &waitingRepo.GetInput{PlayerID: input.PlayerID})
	if err != nil && !errors.Is(err, waitingRepo.ErrEntryNotFound) {
		return nil, err
	}

	if entry != nil {
		if entry.Status == models.WaitingStatusMatched {
			return &StatusOutput{
				State:      QueueStateMatched,
				Difficulty: entry.Difficulty,
				OpponentID: entry.OpponentID,
			}, nil
		}
		return &StatusOutput{
			State:      QueueStateWaiting,
			Difficulty: entry.Difficulty,
		}, nil
	}

	sessions, err := s.sessionRepo.FindByPlayer(ctx, &sessionRepo.FindByPlayerInput{
		PlayerID: input.PlayerID,
		Status:   models.SessionStatusStarted,
	})
	if err != nil {
		return nil, err
	}

	for _, sess := range sessions {
		if sess.Mode != models.ModeRandom {
			continue
		}

		opponentID := sess.PlayerA
		if input.PlayerID == sess.PlayerA {
			opponentID = sess.PlayerB
		}

		return &StatusOutput{
			State:      QueueStateMatched,
			OpponentID: opponentID,
			SessionID:  sess.ID,
		}, nil
	}

	return &StatusOutput{State: QueueStateIdle}, nil
}
