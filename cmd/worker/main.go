package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/adapters/event"
	"github.com/allandacasin/devconnector-api/adapters/persistence"
	"github.com/allandacasin/devconnector-api/internal/config"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

// Consumes account.deleted events and re-runs the post/profile purge.
// The API-side delete is not transactional, so the purge here must be
// idempotent.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, "devconnector-worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := persistence.NewMongoClient(ctx, cfg, appLogger)
	cancel()
	if err != nil {
		log.Fatalf("FATAL: cannot connect MongoDB: %v", err)
	}
	defer mongoClient.Close(context.Background())

	profileRepo := persistence.NewMongoProfileRepo(mongoClient, appLogger)
	postRepo := persistence.NewMongoPostRepo(mongoClient, appLogger)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicAccountEvents,
		GroupID:  "account-cleanup-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicAccountEvents))

	runCtx := context.Background()
	for {
		msg, err := consumer.ReadMessage(runCtx)
		if err != nil {
			appLogger.Error("failed to read message from Kafka", err)
			continue
		}

		var ev event.DomainEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			appLogger.Error("failed to unmarshal event, skipping", err)
			commitMessage(consumer, msg, appLogger)
			continue
		}

		if ev.EventType != event.AccountEventTypeDeleted {
			commitMessage(consumer, msg, appLogger)
			continue
		}

		userID, err := primitive.ObjectIDFromHex(ev.UserID)
		if err != nil {
			appLogger.Error("event carries a malformed user id, skipping", err, zap.String("user_id", ev.UserID))
			commitMessage(consumer, msg, appLogger)
			continue
		}

		deleted, err := postRepo.DeleteByAuthor(runCtx, userID)
		if err != nil {
			appLogger.Error("failed to purge posts", err, zap.String("user_id", ev.UserID))
			continue
		}
		if err := profileRepo.DeleteByUserID(runCtx, userID); err != nil {
			appLogger.Error("failed to purge profile", err, zap.String("user_id", ev.UserID))
			continue
		}

		appLogger.Info("account purge reconciled",
			zap.String("user_id", ev.UserID),
			zap.Int64("posts_removed", deleted),
		)
		commitMessage(consumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("failed to commit message", err)
	}
}
