package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-leavesync/internal/messaging/kafka"
	"go-leavesync/internal/messaging/kafka/producer"
	"go-leavesync/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker publishes leave sync events from the outbox to Kafka.
func RunWorker() error {
	logger := zap.L().Named("app.worker")
	cfg := LoadConfig()
	if err := cfg.requireKafka(); err != nil {
		return err
	}

	gormDB, err := connectDB(cfg)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		outboxPollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
