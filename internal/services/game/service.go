package game

import (
	"context"
	"errors"
	"strings"
	"sync"
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

const (
	// DefaultQuestionCount is the question batch size per session
	DefaultQuestionCount = 10

	// DefaultQuestionTimeout is the per-question answer deadline
	DefaultQuestionTimeout = 15 * time.Second
)

// service implements the Service interface
type service struct {
	config       *Config
	sessionRepo  sessionRepo.Repository
	questionRepo questionRepo.Repository
	profileRepo  profileRepo.Repository
	sink         events.Sink
	clock        clock.Clock
	uuid         uuid.UUID
	logger       *zap.Logger

	// mu guards locks and timers. Session mutations never happen under mu;
	// each session has its own lock so all advance paths serialize per session.
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	timers map[string]*time.Timer
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.QuestionRepo == nil {
		return nil, ErrNilQuestionRepo
	}

	if cfg.ProfileRepo == nil {
		return nil, ErrNilProfileRepo
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

	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = DefaultQuestionCount
	}

	if cfg.QuestionTimeout <= 0 {
		cfg.QuestionTimeout = DefaultQuestionTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		config:       cfg,
		sessionRepo:  cfg.SessionRepo,
		questionRepo: cfg.QuestionRepo,
		profileRepo:  cfg.ProfileRepo,
		sink:         cfg.Sink,
		clock:        cfg.Clock,
		uuid:         cfg.UUIDGenerator,
		logger:       logger,
		locks:        make(map[string]*sync.Mutex),
		timers:       make(map[string]*time.Timer),
	}, nil
}

// sessionLock returns the per-session write lock, creating it on first use
func (s *service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// armTimer starts the deadline for a question, replacing any previous timer.
// At most one live timer exists per session.
func (s *service) armTimer(sessionID string, questionIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
	}

	s.timers[sessionID] = time.AfterFunc(s.config.QuestionTimeout, func() {
		s.handleTimeout(sessionID, questionIndex)
	})
}

// stopTimer cancels the session's live timer, if any
func (s *service) stopTimer(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// releaseSession drops the in-memory state of a terminal session
func (s *service) releaseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
	delete(s.locks, sessionID)
}

// CreateSession creates a session, persists it and arms the first question timer
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil || input.PlayerA == "" {
		return nil, ErrMissingPlayer
	}

	if input.Difficulty == "" {
		return nil, ErrMissingDifficulty
	}

	switch input.Mode {
	case models.ModeSolo:
		if input.PlayerB != "" {
			return nil, ErrInvalidMode
		}
	case models.ModeRandom, models.ModeFriend:
		if input.PlayerB == "" || input.PlayerB == input.PlayerA {
			return nil, ErrInvalidMode
		}
	default:
		return nil, ErrInvalidMode
	}

	questions, err := s.questionRepo.Sample(ctx, &questionRepo.SampleInput{
		Difficulty: input.Difficulty,
		Count:      s.config.QuestionCount,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sess := &models.Session{
		ID:                   s.uuid.NewUUID(),
		Mode:                 input.Mode,
		PlayerA:              input.PlayerA,
		PlayerB:              input.PlayerB,
		Status:               models.SessionStatusStarted,
		Difficulty:           input.Difficulty,
		Questions:            questions,
		CurrentQuestionIndex: 0,
		AnswersA:             []string{},
		AnswersB:             []string{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.sessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return nil, err
	}

	s.armTimer(sess.ID, 0)

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("mode", string(sess.Mode)),
		zap.String("difficulty", sess.Difficulty),
		zap.Int("questions", len(sess.Questions)))

	return &CreateSessionOutput{Session: sess}, nil
}

// JoinSession re-delivers the current question to a (re)connecting participant
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	sess, err := s.sessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !sess.HasPlayer(input.PlayerID) {
		return nil, ErrNotParticipant
	}

	if sess.Terminal() {
		return nil, ErrSessionFinished
	}

	if sess.CurrentQuestionIndex < len(sess.Questions) {
		if err := s.sink.Publish(ctx, input.PlayerID, events.Event{
			Type: events.TypeNextQuestion,
			Payload: events.NextQuestionPayload{
				SessionID:     sess.ID,
				QuestionIndex: sess.CurrentQuestionIndex,
				Question:      events.NewQuestionView(sess.Questions[sess.CurrentQuestionIndex]),
			},
		}); err != nil && !errors.Is(err, events.ErrPlayerOffline) {
			return nil, err
		}
	}

	return &JoinSessionOutput{Session: sess}, nil
}

// SubmitAnswer grades and records an answer for the current question
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	lock := s.sessionLock(input.SessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !sess.HasPlayer(input.PlayerID) {
		return nil, ErrNotParticipant
	}

	if sess.Terminal() {
		return nil, ErrSessionFinished
	}

	if sess.CurrentQuestionIndex >= len(sess.Questions) {
		return nil, ErrNoCurrentQuestion
	}

	// A submission for a question the session already moved past must be
	// rejected, never silently mis-scored against the current question
	if input.QuestionIndex != sess.CurrentQuestionIndex {
		return nil, ErrQuestionExpired
	}

	isPlayerA := input.PlayerID == sess.PlayerA
	if (isPlayerA && sess.AnsweredA) || (!isPlayerA && sess.AnsweredB) {
		return nil, ErrAlreadyAnswered
	}

	current := sess.Questions[sess.CurrentQuestionIndex]
	answer := strings.TrimSpace(input.Answer)
	isCorrect := answer != "" && answer == strings.TrimSpace(current.CorrectAnswer)

	if isPlayerA {
		sess.AnswersA = append(sess.AnswersA, input.Answer)
		sess.AnsweredA = true
	} else {
		sess.AnswersB = append(sess.AnswersB, input.Answer)
		sess.AnsweredB = true
	}
	sess.UpdatedAt = s.clock.Now()

	output := &SubmitAnswerOutput{IsCorrect: isCorrect}
	done := s.allAnswered(sess)

	if !done {
		if err := s.sessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
			return nil, err
		}
	}

	// Grading telemetry goes to the submitter only, never the opponent, and
	// always precedes any advance broadcast on that connection
	if err := s.sink.Publish(ctx, input.PlayerID, events.Event{
		Type: events.TypeAnswerAcknowledged,
		Payload: events.AnswerAcknowledgedPayload{
			SessionID:     sess.ID,
			QuestionIndex: input.QuestionIndex,
			IsCorrect:     isCorrect,
		},
	}); err != nil && !errors.Is(err, events.ErrPlayerOffline) {
		s.logger.Warn("failed to acknowledge answer",
			zap.String("session_id", sess.ID),
			zap.String("player_id", input.PlayerID),
			zap.Error(err))
	}

	if done {
		if err := s.advance(ctx, sess); err != nil {
			return nil, err
		}
		output.Advanced = true
		output.Finished = sess.Status == models.SessionStatusFinished
	}

	return output, nil
}

// allAnswered reports whether every participant answered the current question
func (s *service) allAnswered(sess *models.Session) bool {
	if sess.Mode == models.ModeSolo {
		return sess.AnsweredA
	}
	return sess.AnsweredA && sess.AnsweredB
}

// advance is the single authoritative advance path. Both the dual-answer
// route and the timeout route go through here, with the session lock held.
func (s *service) advance(ctx context.Context, sess *models.Session) error {
	if sess.CurrentQuestionIndex+1 < len(sess.Questions) {
		sess.CurrentQuestionIndex++
		sess.AnsweredA = false
		sess.AnsweredB = false
		sess.UpdatedAt = s.clock.Now()

		if err := s.sessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
			return err
		}

		s.sink.Broadcast(ctx, sess.ID, events.Event{
			Type: events.TypeNextQuestion,
			Payload: events.NextQuestionPayload{
				SessionID:     sess.ID,
				QuestionIndex: sess.CurrentQuestionIndex,
				Question:      events.NewQuestionView(sess.Questions[sess.CurrentQuestionIndex]),
			},
		})

		s.armTimer(sess.ID, sess.CurrentQuestionIndex)
		return nil
	}

	// Last question answered: the cursor becomes terminal and the session finishes
	sess.CurrentQuestionIndex = len(sess.Questions)
	sess.Status = models.SessionStatusFinished
	sess.AnsweredA = false
	sess.AnsweredB = false
	sess.UpdatedAt = s.clock.Now()

	if err := s.sessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return err
	}

	s.sink.Broadcast(ctx, sess.ID, events.Event{
		Type:    events.TypeSessionFinished,
		Payload: events.SessionFinishedPayload{SessionID: sess.ID},
	})

	result, err := s.computeResult(ctx, sess)
	if err != nil {
		s.logger.Error("failed to compute session results",
			zap.String("session_id", sess.ID),
			zap.Error(err))
	} else {
		s.sink.Broadcast(ctx, sess.ID, events.Event{
			Type:    events.TypeSessionResults,
			Payload: result,
		})
	}

	s.releaseSession(sess.ID)

	s.logger.Info("session finished", zap.String("session_id", sess.ID))
	return nil
}

// handleTimeout fires when a question deadline elapses. It synthesizes a
// "no answer" submission for every participant that has not answered and
// runs the same advance logic as a real submission.
func (s *service) handleTimeout(sessionID string, questionIndex int) {
	ctx := context.Background()

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: sessionID})
	if err != nil {
		s.logger.Warn("timeout fired for unloadable session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}

	// A stale timer must never mutate a later question's state
	if sess.Terminal() || sess.CurrentQuestionIndex != questionIndex {
		return
	}

	if !sess.AnsweredA {
		sess.AnswersA = append(sess.AnswersA, models.NoAnswer)
		sess.AnsweredA = true
	}

	if sess.Mode != models.ModeSolo && !sess.AnsweredB {
		sess.AnswersB = append(sess.AnswersB, models.NoAnswer)
		sess.AnsweredB = true
	}
	sess.UpdatedAt = s.clock.Now()

	s.logger.Info("question deadline elapsed",
		zap.String("session_id", sessionID),
		zap.Int("question_index", questionIndex))

	if err := s.advance(ctx, sess); err != nil {
		s.logger.Error("failed to advance session after timeout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// LeaveSession aborts a running session on behalf of a departing player
func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) error {
	if input == nil || input.SessionID == "" || input.PlayerID == "" {
		return ErrMissingPlayer
	}

	lock := s.sessionLock(input.SessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if !sess.HasPlayer(input.PlayerID) {
		return ErrNotParticipant
	}

	if sess.Terminal() {
		return ErrSessionFinished
	}

	return s.abort(ctx, sess, input.PlayerID, "player left the session")
}

// AbortActiveSessions aborts all running non-solo sessions of a disconnected player
func (s *service) AbortActiveSessions(ctx context.Context, input *AbortActiveSessionsInput) error {
	if input == nil || input.PlayerID == "" {
		return ErrMissingPlayer
	}

	sessions, err := s.sessionRepo.FindByPlayer(ctx, &sessionRepo.FindByPlayerInput{
		PlayerID: input.PlayerID,
		Status:   models.SessionStatusStarted,
	})
	if err != nil {
		return err
	}

	for _, sess := range sessions {
		// Solo sessions survive a disconnect; there is no opponent to strand
		if sess.Mode == models.ModeSolo {
			continue
		}

		lock := s.sessionLock(sess.ID)
		lock.Lock()

		// Re-read under the lock; the session may have finished meanwhile
		current, err := s.sessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: sess.ID})
		if err != nil || current.Terminal() {
			lock.Unlock()
			continue
		}

		if err := s.abort(ctx, current, input.PlayerID, "opponent disconnected"); err != nil {
			s.logger.Error("failed to abort session on disconnect",
				zap.String("session_id", sess.ID),
				zap.Error(err))
		}
		lock.Unlock()
	}

	return nil
}

// abort performs the one-way terminal transition, with the session lock held.
// The departing player is not notified; the remaining participants are.
func (s *service) abort(ctx context.Context, sess *models.Session, leavingPlayerID, reason string) error {
	sess.Status = models.SessionStatusAborted
	sess.Aborted = true
	sess.UpdatedAt = s.clock.Now()

	if err := s.sessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return err
	}

	for _, playerID := range sess.Participants() {
		if playerID == leavingPlayerID {
			continue
		}

		if err := s.sink.Publish(ctx, playerID, events.Event{
			Type: events.TypeSessionAborted,
			Payload: events.SessionAbortedPayload{
				SessionID: sess.ID,
				PlayerID:  leavingPlayerID,
				Reason:    reason,
			},
		}); err != nil && !errors.Is(err, events.ErrPlayerOffline) {
			s.logger.Warn("failed to notify session abort",
				zap.String("session_id", sess.ID),
				zap.String("player_id", playerID),
				zap.Error(err))
		}
	}

	s.releaseSession(sess.ID)

	s.logger.Info("session aborted",
		zap.String("session_id", sess.ID),
		zap.String("leaving_player", leavingPlayerID),
		zap.String("reason", reason))
	return nil
}

// GetSession returns a session snapshot
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	sess, err := s.sessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return sess, nil
}

// ListRecentSessions returns a player's sessions, most recent first
func (s *service) ListRecentSessions(ctx context.Context, input *ListRecentSessionsInput) ([]*models.Session, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	return s.sessionRepo.FindByPlayer(ctx, &sessionRepo.FindByPlayerInput{
		PlayerID: input.PlayerID,
		Limit:    input.Limit,
	})
}
