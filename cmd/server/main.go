package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quizduel/quizduel/internal/auth"
	"github.com/quizduel/quizduel/internal/common/clock"
	"github.com/quizduel/quizduel/internal/common/uuid"
	"github.com/quizduel/quizduel/internal/gateway"
	"github.com/quizduel/quizduel/internal/handlers/httpapi"
	challengeRepo "github.com/quizduel/quizduel/internal/repositories/challenge"
	profileRepo "github.com/quizduel/quizduel/internal/repositories/profile"
	questionRepo "github.com/quizduel/quizduel/internal/repositories/question"
	sessionRepo "github.com/quizduel/quizduel/internal/repositories/session"
	waitingRepo "github.com/quizduel/quizduel/internal/repositories/waiting"
	challengeService "github.com/quizduel/quizduel/internal/services/challenge"
	gameService "github.com/quizduel/quizduel/internal/services/game"
	matchService "github.com/quizduel/quizduel/internal/services/match"
	"github.com/quizduel/quizduel/internal/shuffle"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("Failed to create session repository", zap.Error(err))
	}

	waiting, err := waitingRepo.NewRedis(&waitingRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("Failed to create waiting repository", zap.Error(err))
	}

	challenges, err := challengeRepo.NewRedis(&challengeRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("Failed to create challenge repository", zap.Error(err))
	}

	questions, err := questionRepo.NewRedis(&questionRepo.Config{
		RedisClient: redisClient,
		Shuffler:    shuffle.New(&shuffle.Config{}),
	})
	if err != nil {
		logger.Fatal("Failed to create question repository", zap.Error(err))
	}

	profiles, err := profileRepo.NewRedis(&profileRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("Failed to create profile repository", zap.Error(err))
	}

	// The registry doubles as the event sink and the presence check
	registry := gateway.NewRegistry(logger)

	// Initialize services
	gameSvc, err := gameService.New(&gameService.Config{
		QuestionCount:     getEnvInt("QUESTION_COUNT", gameService.DefaultQuestionCount),
		QuestionTimeout:   getEnvDuration("QUESTION_TIMEOUT", gameService.DefaultQuestionTimeout),
		JanitorInterval:   getEnvDuration("JANITOR_INTERVAL", gameService.DefaultJanitorInterval),
		FinishedRetention: getEnvDuration("FINISHED_RETENTION", gameService.DefaultFinishedRetention),
		SessionRepo:       sessions,
		QuestionRepo:      questions,
		ProfileRepo:       profiles,
		Sink:              registry,
		Clock:             &clock.DefaultClock{},
		UUIDGenerator:     uuid.New(),
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal("Failed to create game service", zap.Error(err))
	}

	matchSvc, err := matchService.New(&matchService.Config{
		WaitingRepo: waiting,
		SessionRepo: sessions,
		GameService: gameSvc,
		Sink:        registry,
		Presence:    registry,
		Clock:       &clock.DefaultClock{},
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to create match service", zap.Error(err))
	}

	challengeSvc, err := challengeService.New(&challengeService.Config{
		ChallengeRepo: challenges,
		ProfileRepo:   profiles,
		GameService:   gameSvc,
		Sink:          registry,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("Failed to create challenge service", zap.Error(err))
	}

	// Token verification
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is required")
	}

	verifier, err := auth.NewVerifier(&auth.Config{Secret: []byte(jwtSecret)})
	if err != nil {
		logger.Fatal("Failed to create verifier", zap.Error(err))
	}

	// Initialize the websocket gateway
	gw, err := gateway.New(&gateway.Config{
		Registry:         registry,
		Verifier:         verifier,
		GameService:      gameSvc,
		MatchService:     matchSvc,
		ChallengeService: challengeSvc,
		ProfileRepo:      profiles,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("Failed to create gateway", zap.Error(err))
	}

	// Initialize the REST surface
	api, err := httpapi.New(&httpapi.Config{
		Verifier:         verifier,
		GameService:      gameSvc,
		MatchService:     matchSvc,
		ChallengeService: challengeSvc,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("Failed to create HTTP API", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", gw)
	mux.Handle("/api/", api)

	server := &http.Server{
		Addr:    getEnv("HTTP_ADDR", ":8080"),
		Handler: mux,
	}

	// Periodic cleanup of expired finished sessions
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go gameSvc.StartJanitor(janitorCtx)

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopJanitor()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Error closing Redis client", zap.Error(err))
	}

	logger.Info("server has been shut down")
}

// newLogger builds a production logger, or a development one when APP_ENV=development
func newLogger() (*zap.Logger, error) {
	if getEnv("APP_ENV", "") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
