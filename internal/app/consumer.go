package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leavesync/internal/employee"
	"go-leavesync/internal/events"
	"go-leavesync/internal/messaging/kafka/consumer"
	"go-leavesync/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const employeeMirrorGroup = "go-leavesync-employee-mirror"

// RunConsumer mirrors upstream employees into the local employee table.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
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

	// mirrored employees must drop the API's cached employee options
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	employeeService := employee.NewService(sqlDB, employee.NewRepository(gormDB), rdb, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        employeeMirrorGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, reader, employeeService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
