package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/quizduel/quizduel/internal/models"
	questionRepo "github.com/quizduel/quizduel/internal/repositories/question"
	"github.com/quizduel/quizduel/internal/shuffle"
)

// seedQuestion is one entry in the seed file
type seedQuestion struct {
	ID            string   `json:"id,omitempty"`
	Prompt        string   `json:"prompt"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
}

// Loads a JSON array of questions into the question bank.
//
//	go run ./cmd/seed -file questions.json
func main() {
	_ = godotenv.Load()

	file := flag.String("file", "questions.json", "path to the question seed file")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	repo, err := questionRepo.NewRedis(&questionRepo.Config{
		RedisClient: redisClient,
		Shuffler:    shuffle.New(&shuffle.Config{}),
	})
	if err != nil {
		log.Fatalf("Failed to create question repository: %v", err)
	}

	added := 0
	for _, seed := range seeds {
		if seed.Prompt == "" || seed.CorrectAnswer == "" || seed.Difficulty == "" {
			log.Printf("Skipping incomplete question: %+v", seed)
			continue
		}

		id := seed.ID
		if id == "" {
			id = uuid.New().String()
		}

		if err := repo.Add(ctx, &questionRepo.AddInput{
			Question: &models.Question{
				ID:            id,
				Prompt:        seed.Prompt,
				Answers:       seed.Answers,
				CorrectAnswer: seed.CorrectAnswer,
				Difficulty:    seed.Difficulty,
			},
		}); err != nil {
			log.Fatalf("Failed to store question %q: %v", id, err)
		}
		added++
	}

	log.Printf("Seeded %d questions", added)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
