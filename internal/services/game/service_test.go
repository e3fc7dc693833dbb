package game

import (
	"context"
	"testing"
	"time"

	clockMocks "github.com/quizduel/quizduel/internal/common/clock/mocks"
	uuidMocks "github.com/quizduel/quizduel/internal/common/uuid/mocks"
	"github.com/quizduel/quizduel/internal/events"
	eventMocks "github.com/quizduel/quizduel/internal/events/mocks"
	"github.com/quizduel/quizduel/internal/models"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	profileMocks "github.com/quizduel/quizduel/internal/repositories/profile/mocks"
	questionMocks "github.com/quizduel/quizduel/internal/repositories/question/mocks"
	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
	sessionMocks "github.com/quizduel/quizduel/internal/repositories/session/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockSessionRepo  *sessionMocks.MockRepository
	mockQuestionRepo *questionMocks.MockRepository
	mockProfileRepo  *profileMocks.MockRepository
	mockSink         *eventMocks.MockSink
	mockClock        *clockMocks.MockClock
	mockUUID         *uuidMocks.MockUUID
	gameService      *service
	ctx              context.Context

	// Test data
	testTime      time.Time
	testSessionID string
	testPlayerA   string
	testPlayerB   string
	testQuestions []models.Question
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockQuestionRepo = questionMocks.NewMockRepository(s.mockCtrl)
	s.mockProfileRepo = profileMocks.NewMockRepository(s.mockCtrl)
	s.mockSink = eventMocks.NewMockSink(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.testSessionID = "session-123"
	s.testPlayerA = "player-a"
	s.testPlayerB = "player-b"
	s.testQuestions = []models.Question{
		{ID: "q1", Prompt: "Capital of France?", Answers: []string{"Paris", "Lyon", "Nice", "Lille"}, CorrectAnswer: "Paris", Difficulty: "easy"},
		{ID: "q2", Prompt: "2 + 2?", Answers: []string{"3", "4", "5", "22"}, CorrectAnswer: "4", Difficulty: "easy"},
	}

	svc, err := New(&Config{
		QuestionCount: 2,
		// Long enough that no timer fires inside a test run
		QuestionTimeout: time.Hour,
		SessionRepo:     s.mockSessionRepo,
		QuestionRepo:    s.mockQuestionRepo,
		ProfileRepo:     s.mockProfileRepo,
		Sink:            s.mockSink,
		Clock:           s.mockClock,
		UUIDGenerator:   s.mockUUID,
	})
	s.Require().NoError(err)
	s.gameService = svc

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// duoSession builds a started two-player session on the first question
func (s *GameServiceTestSuite) duoSession() *models.Session {
	return &models.Session{
		ID:         s.testSessionID,
		Mode:       models.ModeRandom,
		PlayerA:    s.testPlayerA,
		PlayerB:    s.testPlayerB,
		Status:     models.SessionStatusStarted,
		Difficulty: "easy",
		Questions:  s.testQuestions,
		AnswersA:   []string{},
		AnswersB:   []string{},
		CreatedAt:  s.testTime,
		UpdatedAt:  s.testTime,
	}
}

func (s *GameServiceTestSuite) soloSession() *models.Session {
	sess := s.duoSession()
	sess.Mode = models.ModeSolo
	sess.PlayerB = ""
	return sess
}

func (s *GameServiceTestSuite) expectGet(sess *models.Session) {
	s.mockSessionRepo.EXPECT().
		Get(s.ctx, &sessionRepo.GetInput{SessionID: sess.ID}).
		Return(sess, nil)
}

func (s *GameServiceTestSuite) TestNewValidation() {
	testCases := []struct {
		name        string
		config      *Config
		expectedErr error
	}{
		{"nil config", nil, ErrNilConfig},
		{"nil session repo", &Config{}, ErrNilSessionRepo},
		{"nil question repo", &Config{SessionRepo: s.mockSessionRepo}, ErrNilQuestionRepo},
		{"nil sink", &Config{
			SessionRepo:  s.mockSessionRepo,
			QuestionRepo: s.mockQuestionRepo,
			ProfileRepo:  s.mockProfileRepo,
		}, ErrNilSink},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			svc, err := New(tc.config)
			s.Nil(svc)
			s.ErrorIs(err, tc.expectedErr)
		})
	}
}

func (s *GameServiceTestSuite) TestCreateSessionSolo() {
	s.mockQuestionRepo.EXPECT().
		Sample(s.ctx, gomock.Any()).
		Return(s.testQuestions, nil)
	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	output, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{
		Mode:       models.ModeSolo,
		PlayerA:    s.testPlayerA,
		Difficulty: "easy",
	})

	s.Require().NoError(err)
	s.Equal(s.testSessionID, output.Session.ID)
	s.Equal(models.SessionStatusStarted, saved.Status)
	s.Equal(0, saved.CurrentQuestionIndex)
	s.Len(saved.Questions, 2)
	s.Empty(saved.AnswersA)

	s.gameService.releaseSession(s.testSessionID)
}

func (s *GameServiceTestSuite) TestCreateSessionInvalidMode() {
	testCases := []struct {
		name  string
		input *CreateSessionInput
	}{
		{"solo with opponent", &CreateSessionInput{Mode: models.ModeSolo, PlayerA: s.testPlayerA, PlayerB: s.testPlayerB, Difficulty: "easy"}},
		{"duo without opponent", &CreateSessionInput{Mode: models.ModeRandom, PlayerA: s.testPlayerA, Difficulty: "easy"}},
		{"duo against self", &CreateSessionInput{Mode: models.ModeFriend, PlayerA: s.testPlayerA, PlayerB: s.testPlayerA, Difficulty: "easy"}},
		{"unknown mode", &CreateSessionInput{Mode: "tournament", PlayerA: s.testPlayerA, PlayerB: s.testPlayerB, Difficulty: "easy"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			output, err := s.gameService.CreateSession(s.ctx, tc.input)
			s.Nil(output)
			s.ErrorIs(err, ErrInvalidMode)
		})
	}
}

func (s *GameServiceTestSuite) TestSubmitAnswerFirstOfTwoDoesNotAdvance() {
	sess := s.duoSession()
	s.expectGet(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testPlayerA, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			s.Equal(events.TypeAnswerAcknowledged, ev.Type)
			return nil
		})

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerA,
		QuestionIndex: 0,
		Answer:        "Paris",
	})

	s.Require().NoError(err)
	s.True(output.IsCorrect)
	s.False(output.Advanced)
	s.Equal(0, saved.CurrentQuestionIndex)
	s.True(saved.AnsweredA)
	s.False(saved.AnsweredB)
	s.Equal([]string{"Paris"}, saved.AnswersA)
}

func (s *GameServiceTestSuite) TestSubmitAnswerSecondOfTwoAdvances() {
	sess := s.duoSession()
	sess.AnsweredA = true
	sess.AnswersA = []string{"Paris"}
	s.expectGet(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})
	s.mockSink.EXPECT().
		Broadcast(s.ctx, s.testSessionID, gomock.Any()).
		Do(func(_ context.Context, _ string, ev events.Event) {
			s.Equal(events.TypeNextQuestion, ev.Type)
			payload := ev.Payload.(events.NextQuestionPayload)
			s.Equal(1, payload.QuestionIndex)
			s.Equal("q2", payload.Question.ID)
		})
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testPlayerB, gomock.Any()).
		Return(nil)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerB,
		QuestionIndex: 0,
		Answer:        "Lyon",
	})

	s.Require().NoError(err)
	s.False(output.IsCorrect)
	s.True(output.Advanced)
	s.False(output.Finished)
	s.Equal(1, saved.CurrentQuestionIndex)
	s.False(saved.AnsweredA)
	s.False(saved.AnsweredB)

	s.gameService.releaseSession(s.testSessionID)
}

func (s *GameServiceTestSuite) TestSubmitAnswerAckPrecedesAdvanceBroadcast() {
	sess := s.duoSession()
	sess.AnsweredA = true
	sess.AnswersA = []string{"Paris"}
	s.expectGet(sess)

	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	// The submitter's grade lands before the room learns about the next question
	gomock.InOrder(
		s.mockSink.EXPECT().
			Publish(s.ctx, s.testPlayerB, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
				s.Equal(events.TypeAnswerAcknowledged, ev.Type)
				return nil
			}),
		s.mockSink.EXPECT().
			Broadcast(s.ctx, s.testSessionID, gomock.Any()).
			Do(func(_ context.Context, _ string, ev events.Event) {
				s.Equal(events.TypeNextQuestion, ev.Type)
			}),
	)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerB,
		QuestionIndex: 0,
		Answer:        "Paris",
	})

	s.Require().NoError(err)
	s.True(output.Advanced)

	s.gameService.releaseSession(s.testSessionID)
}

func (s *GameServiceTestSuite) TestSubmitAnswerDoubleSubmitRejected() {
	sess := s.duoSession()
	sess.AnsweredA = true
	sess.AnswersA = []string{"Paris"}
	s.expectGet(sess)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerA,
		QuestionIndex: 0,
		Answer:        "Paris",
	})

	s.Nil(output)
	s.ErrorIs(err, ErrAlreadyAnswered)
	// The answer list must not grow
	s.Equal([]string{"Paris"}, sess.AnswersA)
}

func (s *GameServiceTestSuite) TestSubmitAnswerStaleIndexRejected() {
	sess := s.duoSession()
	sess.CurrentQuestionIndex = 1
	s.expectGet(sess)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerA,
		QuestionIndex: 0,
		Answer:        "Paris",
	})

	s.Nil(output)
	s.ErrorIs(err, ErrQuestionExpired)
}

func (s *GameServiceTestSuite) TestSubmitAnswerAfterTerminalRejected() {
	sess := s.duoSession()
	sess.Status = models.SessionStatusFinished
	sess.CurrentQuestionIndex = len(sess.Questions)
	s.expectGet(sess)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerA,
		QuestionIndex: 1,
		Answer:        "4",
	})

	s.Nil(output)
	s.ErrorIs(err, ErrSessionFinished)
}

func (s *GameServiceTestSuite) TestSubmitAnswerNonParticipantRejected() {
	sess := s.duoSession()
	s.expectGet(sess)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      "intruder",
		QuestionIndex: 0,
		Answer:        "Paris",
	})

	s.Nil(output)
	s.ErrorIs(err, ErrNotParticipant)
}

func (s *GameServiceTestSuite) TestSoloSingleAnswerAdvances() {
	sess := s.soloSession()
	s.expectGet(sess)

	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)
	s.mockSink.EXPECT().
		Broadcast(s.ctx, s.testSessionID, gomock.Any()).
		Do(func(_ context.Context, _ string, ev events.Event) {
			s.Equal(events.TypeNextQuestion, ev.Type)
		})
	s.mockSink.EXPECT().Publish(s.ctx, s.testPlayerA, gomock.Any()).Return(nil)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerA,
		QuestionIndex: 0,
		Answer:        "Paris",
	})

	s.Require().NoError(err)
	s.True(output.Advanced)
	s.Equal(1, sess.CurrentQuestionIndex)

	s.gameService.releaseSession(s.testSessionID)
}

func (s *GameServiceTestSuite) TestLastAnswerFinishesSessionWithResults() {
	sess := s.duoSession()
	sess.CurrentQuestionIndex = 1
	sess.AnswersA = []string{"Paris"}
	sess.AnswersB = []string{"Lyon"}
	sess.AnsweredA = true
	sess.AnswersA = append(sess.AnswersA, "4")
	s.expectGet(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	s.mockProfileRepo.EXPECT().
		Get(s.ctx, &profileRepo.GetInput{PlayerID: s.testPlayerA}).
		Return(&models.Profile{PlayerID: s.testPlayerA, DisplayName: "Alice"}, nil)
	s.mockProfileRepo.EXPECT().
		Get(s.ctx, &profileRepo.GetInput{PlayerID: s.testPlayerB}).
		Return(nil, profileRepo.ErrProfileNotFound)

	gomock.InOrder(
		s.mockSink.EXPECT().
			Broadcast(s.ctx, s.testSessionID, gomock.Any()).
			Do(func(_ context.Context, _ string, ev events.Event) {
				s.Equal(events.TypeSessionFinished, ev.Type)
			}),
		s.mockSink.EXPECT().
			Broadcast(s.ctx, s.testSessionID, gomock.Any()).
			Do(func(_ context.Context, _ string, ev events.Event) {
				s.Equal(events.TypeSessionResults, ev.Type)
				result := ev.Payload.(*models.SessionResult)
				s.Equal(s.testPlayerA, result.WinnerID)
				s.False(result.Draw)
				s.Equal("Alice", result.Players[0].DisplayName)
				s.Equal(2, result.Players[0].Score)
				// No profile falls back to the player ID
				s.Equal(s.testPlayerB, result.Players[1].DisplayName)
				s.Equal(0, result.Players[1].Score)
			}),
	)
	s.mockSink.EXPECT().Publish(s.ctx, s.testPlayerB, gomock.Any()).Return(nil)

	output, err := s.gameService.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		SessionID:     s.testSessionID,
		PlayerID:      s.testPlayerB,
		QuestionIndex: 1,
		Answer:        "5",
	})

	s.Require().NoError(err)
	s.True(output.Finished)
	s.Equal(models.SessionStatusFinished, saved.Status)
	s.Equal(len(sess.Questions), saved.CurrentQuestionIndex)
}

func (s *GameServiceTestSuite) TestHandleTimeoutFillsMissingAnswers() {
	sess := s.duoSession()
	sess.AnsweredA = true
	sess.AnswersA = []string{"Paris"}
	s.expectGet(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})
	s.mockSink.EXPECT().Broadcast(s.ctx, s.testSessionID, gomock.Any())

	s.gameService.handleTimeout(s.testSessionID, 0)

	s.Equal(1, saved.CurrentQuestionIndex)
	// Exactly one synthetic entry per unanswered participant
	s.Equal([]string{"Paris"}, saved.AnswersA)
	s.Equal([]string{models.NoAnswer}, saved.AnswersB)

	s.gameService.releaseSession(s.testSessionID)
}

func (s *GameServiceTestSuite) TestHandleTimeoutStaleTimerIsNoop() {
	sess := s.duoSession()
	sess.CurrentQuestionIndex = 1
	s.expectGet(sess)

	// No Save, no Broadcast: the stale timer must not touch the session
	s.gameService.handleTimeout(s.testSessionID, 0)

	s.Empty(sess.AnswersA)
	s.Empty(sess.AnswersB)
}

func (s *GameServiceTestSuite) TestHandleTimeoutTerminalSessionIsNoop() {
	sess := s.duoSession()
	sess.Status = models.SessionStatusAborted
	sess.Aborted = true
	s.expectGet(sess)

	s.gameService.handleTimeout(s.testSessionID, 0)

	s.Equal(models.SessionStatusAborted, sess.Status)
}

func (s *GameServiceTestSuite) TestLeaveSessionAbortsAndNotifiesOpponent() {
	sess := s.duoSession()
	s.expectGet(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testPlayerB, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			s.Equal(events.TypeSessionAborted, ev.Type)
			payload := ev.Payload.(events.SessionAbortedPayload)
			s.Equal(s.testPlayerA, payload.PlayerID)
			return nil
		})

	err := s.gameService.LeaveSession(s.ctx, &LeaveSessionInput{
		SessionID: s.testSessionID,
		PlayerID:  s.testPlayerA,
	})

	s.Require().NoError(err)
	s.Equal(models.SessionStatusAborted, saved.Status)
	s.True(saved.Aborted)
}

func (s *GameServiceTestSuite) TestLeaveSessionTerminalRejected() {
	sess := s.duoSession()
	sess.Status = models.SessionStatusFinished
	s.expectGet(sess)

	err := s.gameService.LeaveSession(s.ctx, &LeaveSessionInput{
		SessionID: s.testSessionID,
		PlayerID:  s.testPlayerA,
	})

	s.ErrorIs(err, ErrSessionFinished)
}

func (s *GameServiceTestSuite) TestAbortActiveSessionsSkipsSolo() {
	solo := s.soloSession()
	duo := s.duoSession()
	duo.ID = "session-456"

	s.mockSessionRepo.EXPECT().
		FindByPlayer(s.ctx, &sessionRepo.FindByPlayerInput{
			PlayerID: s.testPlayerA,
			Status:   models.SessionStatusStarted,
		}).
		Return([]*models.Session{solo, duo}, nil)
	s.mockSessionRepo.EXPECT().
		Get(s.ctx, &sessionRepo.GetInput{SessionID: duo.ID}).
		Return(duo, nil)
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testPlayerB, gomock.Any()).
		Return(nil)

	err := s.gameService.AbortActiveSessions(s.ctx, &AbortActiveSessionsInput{PlayerID: s.testPlayerA})

	s.Require().NoError(err)
	s.Equal(models.SessionStatusAborted, duo.Status)
	// The solo session keeps running across the disconnect
	s.Equal(models.SessionStatusStarted, solo.Status)
}

func (s *GameServiceTestSuite) TestGetStatistics() {
	finished := s.duoSession()
	finished.Status = models.SessionStatusFinished
	finished.CurrentQuestionIndex = 2
	finished.AnswersA = []string{"Paris", "4"}
	finished.AnswersB = []string{"Paris", "5"}

	solo := s.soloSession()
	solo.ID = "session-789"
	solo.Status = models.SessionStatusFinished
	solo.CurrentQuestionIndex = 2
	solo.AnswersA = []string{"Lyon", models.NoAnswer}

	s.mockSessionRepo.EXPECT().
		FindByPlayer(s.ctx, &sessionRepo.FindByPlayerInput{
			PlayerID: s.testPlayerA,
			Status:   models.SessionStatusFinished,
			Limit:    statisticsWindow,
		}).
		Return([]*models.Session{finished, solo}, nil)

	output, err := s.gameService.GetStatistics(s.ctx, &GetStatisticsInput{PlayerID: s.testPlayerA})

	s.Require().NoError(err)
	s.Require().Len(output.Records, 2)
	s.Equal(models.OutcomeWin, output.Records[0].Outcome)
	s.Equal(2, output.Records[0].CorrectAnswers)
	s.Equal(models.OutcomeCompleted, output.Records[1].Outcome)
	s.Equal(0, output.Records[1].CorrectAnswers)
}

func (s *GameServiceTestSuite) TestGetStatisticsFromOpponentPerspective() {
	finished := s.duoSession()
	finished.Status = models.SessionStatusFinished
	finished.CurrentQuestionIndex = 2
	finished.AnswersA = []string{"Paris", "4"}
	finished.AnswersB = []string{"Paris", "5"}

	s.mockSessionRepo.EXPECT().
		FindByPlayer(s.ctx, gomock.Any()).
		Return([]*models.Session{finished}, nil)

	output, err := s.gameService.GetStatistics(s.ctx, &GetStatisticsInput{PlayerID: s.testPlayerB})

	s.Require().NoError(err)
	s.Require().Len(output.Records, 1)
	s.Equal(models.OutcomeLose, output.Records[0].Outcome)
	s.Equal(1, output.Records[0].CorrectAnswers)
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}
