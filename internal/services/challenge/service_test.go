package challenge

import (
	"context"
	"testing"
	"time"

	clockMocks "github.com/quizduel/quizduel/internal/common/clock/mocks"
	uuidMocks "github.com/quizduel/quizduel/internal/common/uuid/mocks"
	"github.com/quizduel/quizduel/internal/events"
	eventMocks "github.com/quizduel/quizduel/internal/events/mocks"
	"github.com/quizduel/quizduel/internal/models"
	challengeRepo "github.com/quizduel/quizduel/internal/repositories/challenge"
	challengeMocks "github.com/quizduel/quizduel/internal/repositories/challenge/mocks"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	profileMocks "github.com/quizduel/quizduel/internal/repositories/profile/mocks"
	gameService "github.com/quizduel/quizduel/internal/services/game"
	gameMocks "github.com/quizduel/quizduel/internal/services/game/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ChallengeServiceTestSuite struct {
	suite.Suite
	mockCtrl          *gomock.Controller
	mockChallengeRepo *challengeMocks.MockRepository
	mockProfileRepo   *profileMocks.MockRepository
	mockGameService   *gameMocks.MockService
	mockSink          *eventMocks.MockSink
	mockClock         *clockMocks.MockClock
	mockUUID          *uuidMocks.MockUUID
	challengeService  Service
	ctx               context.Context

	// Test data
	testTime        time.Time
	testChallengeID string
	testChallenger  string
	testChallenged  string
	testChallenge   *models.Challenge
}

func (s *ChallengeServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockChallengeRepo = challengeMocks.NewMockRepository(s.mockCtrl)
	s.mockProfileRepo = profileMocks.NewMockRepository(s.mockCtrl)
	s.mockGameService = gameMocks.NewMockService(s.mockCtrl)
	s.mockSink = eventMocks.NewMockSink(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.testChallengeID = "challenge-123"
	s.testChallenger = "player-1"
	s.testChallenged = "player-2"
	s.testChallenge = &models.Challenge{
		ID:           s.testChallengeID,
		ChallengerID: s.testChallenger,
		ChallengedID: s.testChallenged,
		Difficulty:   "hard",
		Status:       models.ChallengeStatusPending,
		CreatedAt:    s.testTime,
	}

	svc, err := New(&Config{
		ChallengeRepo: s.mockChallengeRepo,
		ProfileRepo:   s.mockProfileRepo,
		GameService:   s.mockGameService,
		Sink:          s.mockSink,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.challengeService = svc

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
}

func (s *ChallengeServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ChallengeServiceTestSuite) TestProposeDeliversToOnlinePlayer() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testChallengeID)
	s.mockChallengeRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *challengeRepo.SaveInput) error {
			s.Equal(models.ChallengeStatusPending, input.Challenge.Status)
			return nil
		})
	s.mockProfileRepo.EXPECT().
		Get(s.ctx, &profileRepo.GetInput{PlayerID: s.testChallenger}).
		Return(&models.Profile{PlayerID: s.testChallenger, DisplayName: "Alice"}, nil)
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenged, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			s.Equal(events.TypeChallengeReceived, ev.Type)
			payload := ev.Payload.(events.ChallengeReceivedPayload)
			s.Equal(s.testChallengeID, payload.ChallengeID)
			s.Equal("Alice", payload.ChallengerTag)
			return nil
		})

	output, err := s.challengeService.Propose(s.ctx, &ProposeInput{
		ChallengerID: s.testChallenger,
		ChallengedID: s.testChallenged,
		Difficulty:   "hard",
	})

	s.Require().NoError(err)
	s.True(output.Delivered)
	s.Equal(s.testChallengeID, output.Challenge.ID)
}

func (s *ChallengeServiceTestSuite) TestProposeOfflinePlayerStillPersists() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testChallengeID)
	s.mockChallengeRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)
	s.mockProfileRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(nil, profileRepo.ErrProfileNotFound)
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenged, gomock.Any()).
		Return(events.ErrPlayerOffline)

	output, err := s.challengeService.Propose(s.ctx, &ProposeInput{
		ChallengerID: s.testChallenger,
		ChallengedID: s.testChallenged,
		Difficulty:   "hard",
	})

	s.Require().NoError(err)
	s.False(output.Delivered)
}

func (s *ChallengeServiceTestSuite) TestProposeSelfChallengeRejected() {
	output, err := s.challengeService.Propose(s.ctx, &ProposeInput{
		ChallengerID: s.testChallenger,
		ChallengedID: s.testChallenger,
		Difficulty:   "hard",
	})

	s.Nil(output)
	s.ErrorIs(err, ErrSelfChallenge)
}

func (s *ChallengeServiceTestSuite) TestRespondAcceptCreatesFriendSession() {
	accepted := *s.testChallenge
	accepted.Status = models.ChallengeStatusAccepted
	sess := &models.Session{
		ID:         "session-456",
		Mode:       models.ModeFriend,
		PlayerA:    s.testChallenger,
		PlayerB:    s.testChallenged,
		Difficulty: "hard",
		Questions:  []models.Question{{ID: "q1"}},
	}

	s.mockChallengeRepo.EXPECT().
		Get(s.ctx, &challengeRepo.GetInput{ChallengeID: s.testChallengeID}).
		Return(s.testChallenge, nil)
	s.mockChallengeRepo.EXPECT().
		Transition(s.ctx, &challengeRepo.TransitionInput{
			ChallengeID: s.testChallengeID,
			To:          models.ChallengeStatusAccepted,
		}).
		Return(&accepted, nil)
	s.mockGameService.EXPECT().
		CreateSession(s.ctx, &gameService.CreateSessionInput{
			Mode:       models.ModeFriend,
			PlayerA:    s.testChallenger,
			PlayerB:    s.testChallenged,
			Difficulty: "hard",
		}).
		Return(&gameService.CreateSessionOutput{Session: sess}, nil)

	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenger, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			s.Equal(events.TypeSessionStarted, ev.Type)
			return nil
		})
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenged, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			s.Equal(events.TypeSessionStarted, ev.Type)
			return nil
		})
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenger, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			s.Equal(events.TypeChallengeResponded, ev.Type)
			payload := ev.Payload.(events.ChallengeRespondedPayload)
			s.Equal("accepted", payload.Decision)
			return nil
		})

	output, err := s.challengeService.Respond(s.ctx, &RespondInput{
		ChallengeID: s.testChallengeID,
		PlayerID:    s.testChallenged,
		Accept:      true,
	})

	s.Require().NoError(err)
	s.Equal(sess, output.Session)
	s.Equal(models.ChallengeStatusAccepted, output.Challenge.Status)
}

func (s *ChallengeServiceTestSuite) TestRespondDeclineSkipsSession() {
	declined := *s.testChallenge
	declined.Status = models.ChallengeStatusDeclined

	s.mockChallengeRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(s.testChallenge, nil)
	s.mockChallengeRepo.EXPECT().
		Transition(s.ctx, &challengeRepo.TransitionInput{
			ChallengeID: s.testChallengeID,
			To:          models.ChallengeStatusDeclined,
		}).
		Return(&declined, nil)
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenger, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev events.Event) error {
			payload := ev.Payload.(events.ChallengeRespondedPayload)
			s.Equal("declined", payload.Decision)
			return nil
		})

	output, err := s.challengeService.Respond(s.ctx, &RespondInput{
		ChallengeID: s.testChallengeID,
		PlayerID:    s.testChallenged,
		Accept:      false,
	})

	s.Require().NoError(err)
	s.Nil(output.Session)
}

func (s *ChallengeServiceTestSuite) TestRespondOnlyChallengedMayAnswer() {
	s.mockChallengeRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(s.testChallenge, nil)

	output, err := s.challengeService.Respond(s.ctx, &RespondInput{
		ChallengeID: s.testChallengeID,
		PlayerID:    s.testChallenger,
		Accept:      true,
	})

	s.Nil(output)
	s.ErrorIs(err, ErrNotChallenged)
}

func (s *ChallengeServiceTestSuite) TestRespondSecondResponseRejected() {
	s.mockChallengeRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(s.testChallenge, nil)
	s.mockChallengeRepo.EXPECT().
		Transition(s.ctx, gomock.Any()).
		Return(nil, challengeRepo.ErrAlreadyResolved)

	output, err := s.challengeService.Respond(s.ctx, &RespondInput{
		ChallengeID: s.testChallengeID,
		PlayerID:    s.testChallenged,
		Accept:      true,
	})

	s.Nil(output)
	s.ErrorIs(err, ErrAlreadyResolved)
}

func (s *ChallengeServiceTestSuite) TestDeliverPendingPushesAll() {
	second := &models.Challenge{
		ID:           "challenge-456",
		ChallengerID: "player-3",
		ChallengedID: s.testChallenged,
		Difficulty:   "easy",
		Status:       models.ChallengeStatusPending,
	}

	s.mockChallengeRepo.EXPECT().
		ListPendingFor(s.ctx, &challengeRepo.ListPendingForInput{ChallengedID: s.testChallenged}).
		Return([]*models.Challenge{s.testChallenge, second}, nil)
	s.mockProfileRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(nil, profileRepo.ErrProfileNotFound).
		Times(2)
	s.mockSink.EXPECT().
		Publish(s.ctx, s.testChallenged, gomock.Any()).
		Return(nil).
		Times(2)

	err := s.challengeService.DeliverPending(s.ctx, s.testChallenged)
	s.NoError(err)
}

func TestChallengeServiceSuite(t *testing.T) {
	suite.Run(t, new(ChallengeServiceTestSuite))
}
