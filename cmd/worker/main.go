package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/financial-frontier/backend/adapters/event"
	"github.com/financial-frontier/backend/adapters/persistence"
	gameUC "github.com/financial-frontier/backend/internal/application/usecase/game"
	"github.com/financial-frontier/backend/internal/config"
	"github.com/financial-frontier/backend/pkg/logger"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Financial Frontier Worker...")

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Redis
	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Stats cache warmer
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	statsUseCase := gameUC.NewStatsUseCase(userRepo, redisClient, cfg.Redis.StatsTTL, appLogger)

	// Kafka Consumer
	userConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicUserEvents,
		GroupID:  "user-events-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer userConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicUserEvents))

	ctx := context.Background()
	for {
		msg, err := userConsumer.FetchMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload event.UserEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal event, skipping", err, zap.String("key", string(msg.Key)))
			commitMessage(userConsumer, msg, appLogger)
			continue
		}

		appLogger.Info("Processing event",
			zap.String("event_type", payload.EventType),
			zap.String("user_id", payload.UserID))

		if payload.EventType == event.UserEventTypeOnboarded {
			if err := statsUseCase.WarmStats(ctx, payload.UserID); err != nil {
				appLogger.Error("Failed to warm stats cache", err, zap.String("user_id", payload.UserID))
				continue
			}
		}

		commitMessage(userConsumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
