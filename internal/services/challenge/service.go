package challenge

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/common/clock"
	"github.com/quizduel/quizduel/internal/common/uuid"
	"github.com/quizduel/quizduel/internal/events"
	"github.com/quizduel/quizduel/internal/models"
	challengeRepo "github.com/quizduel/quizduel/internal/repositories/challenge"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	gameService "github.com/quizduel/quizduel/internal/services/game"
)

// service implements the Service interface
type service struct {
	challengeRepo challengeRepo.Repository
	profileRepo   profileRepo.Repository
	gameService   gameService.Service
	sink          events.Sink
	clock         clock.Clock
	uuid          uuid.UUID
	logger        *zap.Logger
}

// New creates a new challenge service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.ChallengeRepo == nil {
		return nil, ErrNilChallengeRepo
	}

	if cfg.ProfileRepo == nil {
		return nil, ErrNilProfileRepo
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

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		challengeRepo: cfg.ChallengeRepo,
		profileRepo:   cfg.ProfileRepo,
		gameService:   cfg.GameService,
		sink:          cfg.Sink,
		clock:         cfg.Clock,
		uuid:          cfg.UUIDGenerator,
		logger:        logger,
	}, nil
}

// Propose creates a pending challenge and notifies the challenged player.
// The challenge is persisted first, so an offline challenged player still
// receives it when they next authenticate.
func (s *service) Propose(ctx context.Context, input *ProposeInput) (*ProposeOutput, error) {
	if input == nil || input.ChallengerID == "" || input.ChallengedID == "" {
		return nil, ErrMissingPlayer
	}

	if input.ChallengerID == input.ChallengedID {
		return nil, ErrSelfChallenge
	}

	if input.Difficulty == "" {
		return nil, ErrMissingDifficulty
	}

	ch := &models.Challenge{
		ID:           s.uuid.NewUUID(),
		ChallengerID: input.ChallengerID,
		ChallengedID: input.ChallengedID,
		Difficulty:   input.Difficulty,
		Status:       models.ChallengeStatusPending,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.challengeRepo.Save(ctx, &challengeRepo.SaveInput{Challenge: ch}); err != nil {
		return nil, err
	}

	delivered := true
	if err := s.deliver(ctx, ch); err != nil {
		if !errors.Is(err, events.ErrPlayerOffline) {
			return nil, err
		}
		delivered = false
	}

	s.logger.Info("challenge proposed",
		zap.String("challenge_id", ch.ID),
		zap.String("challenger_id", ch.ChallengerID),
		zap.String("challenged_id", ch.ChallengedID),
		zap.Bool("delivered", delivered))

	return &ProposeOutput{Challenge: ch, Delivered: delivered}, nil
}

// deliver pushes one challengeReceived event to the challenged player
func (s *service) deliver(ctx context.Context, ch *models.Challenge) error {
	return s.sink.Publish(ctx, ch.ChallengedID, events.Event{
		Type: events.TypeChallengeReceived,
		Payload: events.ChallengeReceivedPayload{
			ChallengeID:   ch.ID,
			ChallengerID:  ch.ChallengerID,
			ChallengerTag: s.challengerTag(ctx, ch.ChallengerID),
			Difficulty:    ch.Difficulty,
		},
	})
}

// challengerTag resolves the challenger's display name, empty when unknown
func (s *service) challengerTag(ctx context.Context, challengerID string) string {
	p, err := s.profileRepo.Get(ctx, &profileRepo.GetInput{PlayerID: challengerID})
	if err != nil {
		return ""
	}
	return p.DisplayName
}

// Respond resolves a pending challenge. The repository transition is atomic,
// so exactly one response wins; a second one fails with ErrAlreadyResolved.
func (s *service) Respond(ctx context.Context, input *RespondInput) (*RespondOutput, error) {
	if input == nil || input.ChallengeID == "" || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	ch, err := s.challengeRepo.Get(ctx, &challengeRepo.GetInput{ChallengeID: input.ChallengeID})
	if err != nil {
		if errors.Is(err, challengeRepo.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if input.PlayerID != ch.ChallengedID {
		return nil, ErrNotChallenged
	}

	to := models.ChallengeStatusDeclined
	decision := "declined"
	if input.Accept {
		to = models.ChallengeStatusAccepted
		decision = "accepted"
	}

	resolved, err := s.challengeRepo.Transition(ctx, &challengeRepo.TransitionInput{
		ChallengeID: input.ChallengeID,
		To:          to,
	})
	if err != nil {
		if errors.Is(err, challengeRepo.ErrAlreadyResolved) {
			return nil, ErrAlreadyResolved
		}
		if errors.Is(err, challengeRepo.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	output := &RespondOutput{Challenge: resolved}

	if input.Accept {
		created, err := s.gameService.CreateSession(ctx, &gameService.CreateSessionInput{
			Mode:       models.ModeFriend,
			PlayerA:    resolved.ChallengerID,
			PlayerB:    resolved.ChallengedID,
			Difficulty: resolved.Difficulty,
		})
		if err != nil {
			return nil, err
		}
		output.Session = created.Session

		s.notifySessionStarted(ctx, created.Session, resolved.ChallengerID, resolved.ChallengedID)
		s.notifySessionStarted(ctx, created.Session, resolved.ChallengedID, resolved.ChallengerID)
	}

	if err := s.sink.Publish(ctx, resolved.ChallengerID, events.Event{
		Type: events.TypeChallengeResponded,
		Payload: events.ChallengeRespondedPayload{
			ChallengeID: resolved.ID,
			Decision:    decision,
		},
	}); err != nil && !errors.Is(err, events.ErrPlayerOffline) {
		s.logger.Warn("failed to notify challenger of decision",
			zap.String("challenge_id", resolved.ID),
			zap.Error(err))
	}

	s.logger.Info("challenge resolved",
		zap.String("challenge_id", resolved.ID),
		zap.String("decision", decision))

	return output, nil
}

func (s *service) notifySessionStarted(ctx context.Context, sess *models.Session, playerID, opponentID string) {
	if err := s.sink.Publish(ctx, playerID, events.Event{
		Type: events.TypeSessionStarted,
		Payload: events.SessionStartedPayload{
			SessionID:  sess.ID,
			OpponentID: opponentID,
			Difficulty: sess.Difficulty,
			Questions:  events.QuestionViews(sess.Questions),
		},
	}); err != nil {
		s.logger.Warn("failed to deliver session start",
			zap.String("player_id", playerID),
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}
}

// ListPending returns the challenges awaiting the player's response, oldest first
func (s *service) ListPending(ctx context.Context, input *ListPendingInput) (*ListPendingOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	challenges, err := s.challengeRepo.ListPendingFor(ctx, &challengeRepo.ListPendingForInput{
		ChallengedID: input.PlayerID,
	})
	if err != nil {
		return nil, err
	}

	return &ListPendingOutput{Challenges: challenges}, nil
}

// DeliverPending pushes every pending challenge to a freshly authenticated connection
func (s *service) DeliverPending(ctx context.Context, playerID string) error {
	if playerID == "" {
		return ErrMissingPlayer
	}

	challenges, err := s.challengeRepo.ListPendingFor(ctx, &challengeRepo.ListPendingForInput{
		ChallengedID: playerID,
	})
	if err != nil {
		return err
	}

	for _, ch := range challenges {
		if err := s.deliver(ctx, ch); err != nil {
			if errors.Is(err, events.ErrPlayerOffline) {
				// The connection dropped mid-delivery; the rest waits for the next one
				return nil
			}
			return err
		}
	}

	return nil
}
