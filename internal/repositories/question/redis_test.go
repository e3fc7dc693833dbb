package question

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/quizduel/quizduel/internal/models"
	"github.com/quizduel/quizduel/internal/shuffle"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
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
		Shuffler:    shuffle.New(&shuffle.Config{Seed: 42}),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) seed(difficulty string, count int) {
	for i := 0; i < count; i++ {
		err := s.repo.Add(context.Background(), &AddInput{
			Question: &models.Question{
				ID:            fmt.Sprintf("%s-q-%d", difficulty, i),
				Prompt:        fmt.Sprintf("Question %d?", i),
				Answers:       []string{"a", "b", "c", "d"},
				CorrectAnswer: "a",
				Difficulty:    difficulty,
			},
		})
		s.Require().NoError(err)
	}
}

func (s *RedisRepositoryTestSuite) TestSampleReturnsRequestedCount() {
	s.seed("Easy", 20)

	questions, err := s.repo.Sample(context.Background(), &SampleInput{
		Difficulty: "Easy",
		Count:      10,
	})
	s.Require().NoError(err)
	s.Len(questions, 10)

	// No duplicates in the batch
	seen := map[string]bool{}
	for _, q := range questions {
		s.False(seen[q.ID], "question %s sampled twice", q.ID)
		s.Equal("Easy", q.Difficulty)
		seen[q.ID] = true
	}
}

func (s *RedisRepositoryTestSuite) TestSampleSmallBank() {
	s.seed("Hard", 3)

	questions, err := s.repo.Sample(context.Background(), &SampleInput{
		Difficulty: "Hard",
		Count:      10,
	})
	s.Require().NoError(err)
	s.Len(questions, 3)
}

func (s *RedisRepositoryTestSuite) TestSampleEmptyBank() {
	_, err := s.repo.Sample(context.Background(), &SampleInput{
		Difficulty: "Medium",
		Count:      10,
	})
	s.Require().ErrorIs(err, ErrNoQuestions)
}

func (s *RedisRepositoryTestSuite) TestSampleIgnoresOtherDifficulties() {
	s.seed("Easy", 5)
	s.seed("Hard", 5)

	questions, err := s.repo.Sample(context.Background(), &SampleInput{
		Difficulty: "Easy",
		Count:      10,
	})
	s.Require().NoError(err)
	s.Len(questions, 5)
	for _, q := range questions {
		s.Equal("Easy", q.Difficulty)
	}
}
