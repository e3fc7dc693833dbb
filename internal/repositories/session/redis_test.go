package session

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

func (s *RedisRepositoryTestSuite) newSession(id string) *models.Session {
	return &models.Session{
		ID:         id,
		Mode:       models.ModeRandom,
		PlayerA:    "player-a",
		PlayerB:    "player-b",
		Status:     models.SessionStatusStarted,
		Difficulty: "Easy",
		Questions: []models.Question{
			{
				ID:            "q-1",
				Prompt:        "What is the capital of France?",
				Answers:       []string{"Paris", "Lyon", "Nice", "Lille"},
				CorrectAnswer: "Paris",
				Difficulty:    "Easy",
			},
		},
		AnswersA:  []string{},
		AnswersB:  []string{},
		CreatedAt: s.testNow,
		UpdatedAt: s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	sess := s.newSession("test-session-id")

	err := s.repo.Save(context.Background(), &SaveInput{
		Session: sess,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.Get(context.Background(), &GetInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-session-id", retrieved.ID)
	s.Equal(models.ModeRandom, retrieved.Mode)
	s.Equal("player-a", retrieved.PlayerA)
	s.Equal("player-b", retrieved.PlayerB)
	s.Equal(models.SessionStatusStarted, retrieved.Status)
	s.Len(retrieved.Questions, 1)
	s.Equal("Paris", retrieved.Questions[0].CorrectAnswer)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(context.Background(), &GetInput{
		SessionID: "missing-session",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	sess := s.newSession("test-session-id")

	err := s.repo.Save(context.Background(), &SaveInput{Session: sess})
	s.Require().NoError(err)

	err = s.repo.Delete(context.Background(), &DeleteInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)

	_, err = s.repo.Get(context.Background(), &GetInput{
		SessionID: "test-session-id",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)

	// The player index must be cleaned up as well
	sessions, err := s.repo.FindByPlayer(context.Background(), &FindByPlayerInput{
		PlayerID: "player-a",
	})
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *RedisRepositoryTestSuite) TestFindByPlayerOrderAndFilter() {
	older := s.newSession("older-session")
	older.Status = models.SessionStatusFinished
	older.CreatedAt = s.testNow.Add(-time.Hour)
	older.UpdatedAt = s.testNow.Add(-time.Hour)

	newer := s.newSession("newer-session")

	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: older}))
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: newer}))

	sessions, err := s.repo.FindByPlayer(context.Background(), &FindByPlayerInput{
		PlayerID: "player-a",
	})
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal("newer-session", sessions[0].ID)
	s.Equal("older-session", sessions[1].ID)

	started, err := s.repo.FindByPlayer(context.Background(), &FindByPlayerInput{
		PlayerID: "player-a",
		Status:   models.SessionStatusStarted,
	})
	s.Require().NoError(err)
	s.Require().Len(started, 1)
	s.Equal("newer-session", started[0].ID)

	limited, err := s.repo.FindByPlayer(context.Background(), &FindByPlayerInput{
		PlayerID: "player-a",
		Limit:    1,
	})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *RedisRepositoryTestSuite) TestFindFinishedBefore() {
	stale := s.newSession("stale-session")
	stale.Status = models.SessionStatusFinished
	stale.UpdatedAt = s.testNow.Add(-2 * time.Hour)

	fresh := s.newSession("fresh-session")
	fresh.Status = models.SessionStatusFinished
	fresh.UpdatedAt = s.testNow

	running := s.newSession("running-session")

	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: stale}))
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: fresh}))
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: running}))

	ids, err := s.repo.FindFinishedBefore(context.Background(), &FindFinishedBeforeInput{
		Cutoff: s.testNow.Add(-time.Hour),
	})
	s.Require().NoError(err)
	s.Equal([]string{"stale-session"}, ids)
}
