package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/quizduel/quizduel/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newChallenge(id string) *models.Challenge {
	return &models.Challenge{
		ID:           id,
		ChallengerID: "challenger-id",
		ChallengedID: "challenged-id",
		Difficulty:   "Hard",
		Status:       models.ChallengeStatusPending,
		CreatedAt:    s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	ch := s.newChallenge("test-challenge-id")

	err := s.repo.Save(context.Background(), &SaveInput{Challenge: ch})
	s.Require().NoError(err)

	retrieved, err := s.repo.Get(context.Background(), &GetInput{
		ChallengeID: "test-challenge-id",
	})
	s.Require().NoError(err)
	s.Equal("challenger-id", retrieved.ChallengerID)
	s.Equal("challenged-id", retrieved.ChallengedID)
	s.Equal(models.ChallengeStatusPending, retrieved.Status)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(context.Background(), &GetInput{ChallengeID: "missing"})
	s.Require().ErrorIs(err, ErrChallengeNotFound)
}

func (s *RedisRepositoryTestSuite) TestTransitionAccept() {
	ch := s.newChallenge("test-challenge-id")
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Challenge: ch}))

	updated, err := s.repo.Transition(context.Background(), &TransitionInput{
		ChallengeID: "test-challenge-id",
		To:          models.ChallengeStatusAccepted,
	})
	s.Require().NoError(err)
	s.Equal(models.ChallengeStatusAccepted, updated.Status)

	// No longer pending for the challenged player
	pending, err := s.repo.ListPendingFor(context.Background(), &ListPendingForInput{
		ChallengedID: "challenged-id",
	})
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *RedisRepositoryTestSuite) TestTransitionTwiceFails() {
	ch := s.newChallenge("test-challenge-id")
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Challenge: ch}))

	_, err := s.repo.Transition(context.Background(), &TransitionInput{
		ChallengeID: "test-challenge-id",
		To:          models.ChallengeStatusDeclined,
	})
	s.Require().NoError(err)

	_, err = s.repo.Transition(context.Background(), &TransitionInput{
		ChallengeID: "test-challenge-id",
		To:          models.ChallengeStatusAccepted,
	})
	s.Require().ErrorIs(err, ErrAlreadyResolved)

	// First decision stands
	retrieved, err := s.repo.Get(context.Background(), &GetInput{
		ChallengeID: "test-challenge-id",
	})
	s.Require().NoError(err)
	s.Equal(models.ChallengeStatusDeclined, retrieved.Status)
}

func (s *RedisRepositoryTestSuite) TestTransitionMissingChallenge() {
	_, err := s.repo.Transition(context.Background(), &TransitionInput{
		ChallengeID: "missing",
		To:          models.ChallengeStatusAccepted,
	})
	s.Require().ErrorIs(err, ErrChallengeNotFound)
}

func (s *RedisRepositoryTestSuite) TestListPendingForOldestFirst() {
	first := s.newChallenge("first-challenge")
	first.CreatedAt = s.testNow.Add(-time.Minute)

	second := s.newChallenge("second-challenge")

	other := s.newChallenge("other-challenge")
	other.ChallengedID = "someone-else"

	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Challenge: second}))
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Challenge: first}))
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Challenge: other}))

	pending, err := s.repo.ListPendingFor(context.Background(), &ListPendingForInput{
		ChallengedID: "challenged-id",
	})
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal("first-challenge", pending[0].ID)
	s.Equal("second-challenge", pending[1].ID)
}
