package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quizduel/quizduel/internal/models"
	"github.com/quizduel/quizduel/internal/shuffle"
)

const (
	// Key prefixes for Redis
	questionKeyPrefix   = "question:"
	difficultyKeyPrefix = "questions:difficulty:" // Set of question IDs per difficulty
)

// ErrNoQuestions is returned when a difficulty has no questions at all
var ErrNoQuestions = errors.New("no questions for difficulty")

// Config holds configuration for the Redis question repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Shuffler reorders sampled batches; a seeded one makes tests deterministic
	Shuffler *shuffle.Shuffler
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client   *redis.Client
	shuffler *shuffle.Shuffler
}

// NewRedis creates a new Redis-backed question repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	shuffler := cfg.Shuffler
	if shuffler == nil {
		shuffler = shuffle.New(nil)
	}

	return &redisRepository{
		client:   cfg.RedisClient,
		shuffler: shuffler,
	}, nil
}

// Add stores a question in the bank
func (r *redisRepository) Add(ctx context.Context, input *AddInput) error {
	if input == nil || input.Question == nil {
		return errors.New("input and question cannot be nil")
	}

	if input.Question.ID == "" || input.Question.Difficulty == "" {
		return errors.New("question ID and difficulty cannot be empty")
	}

	questionJSON, err := json.Marshal(input.Question)
	if err != nil {
		return fmt.Errorf("failed to marshal question: %w", err)
	}

	pipe := r.client.Pipeline()

	questionKey := fmt.Sprintf("%s%s", questionKeyPrefix, input.Question.ID)
	pipe.Set(ctx, questionKey, questionJSON, 0)

	setKey := fmt.Sprintf("%s%s", difficultyKeyPrefix, input.Question.Difficulty)
	pipe.SAdd(ctx, setKey, input.Question.ID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add question: %w", err)
	}

	return nil
}

// Sample returns up to Count random questions for a difficulty, shuffled
func (r *redisRepository) Sample(ctx context.Context, input *SampleInput) ([]models.Question, error) {
	if input == nil || input.Difficulty == "" {
		return nil, errors.New("input and difficulty cannot be empty")
	}

	if input.Count <= 0 {
		return nil, errors.New("count must be positive")
	}

	setKey := fmt.Sprintf("%s%s", difficultyKeyPrefix, input.Difficulty)
	ids, err := r.client.SRandMemberN(ctx, setKey, int64(input.Count)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to sample question IDs: %w", err)
	}

	if len(ids) == 0 {
		return nil, ErrNoQuestions
	}

	// Fetch the sampled questions in one round trip
	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, 0, len(ids))
	for _, id := range ids {
		questionKey := fmt.Sprintf("%s%s", questionKeyPrefix, id)
		cmds = append(cmds, pipe.Get(ctx, questionKey))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get sampled questions: %w", err)
	}

	questions := make([]models.Question, 0, len(ids))
	for _, cmd := range cmds {
		questionJSON, err := cmd.Result()
		if err != nil {
			// Question was removed between the sample and the fetch
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get question: %w", err)
		}

		var q models.Question
		if err := json.Unmarshal([]byte(questionJSON), &q); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question: %w", err)
		}

		questions = append(questions, q)
	}

	r.shuffler.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return questions, nil
}
