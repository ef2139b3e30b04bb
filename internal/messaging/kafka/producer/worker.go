package producer

import (
	"context"
	"time"

	"go-leavesync/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	batchSize = 50

	sentRetention = 7 * 24 * time.Hour
	purgeInterval = time.Hour
)

// ProcessOutboxEvents polls the outbox and publishes pending events until
// ctx is cancelled. Events that fail are retried with backoff by the repo.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	purge := time.NewTicker(purgeInterval)
	defer purge.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := ProcessPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		case <-purge.C:
			PurgeSentEvents(ctx, repo, log, time.Now())
		}
	}
}

// ProcessPendingEvents publishes one batch and returns how many were sent.
func ProcessPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			if merr := repo.MarkFailed(ctx, event.ID, err.Error()); merr != nil {
				logger.Error("mark outbox failed failed",
					zap.String("outbox_id", event.ID),
					zap.Error(merr),
				)
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		sent++
		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return sent, nil
}

// PurgeSentEvents drops events published longer than sentRetention ago.
func PurgeSentEvents(ctx context.Context, repo kafka.OutboxRepository, logger *zap.Logger, now time.Time) {
	n, err := repo.PurgeSent(ctx, now.Add(-sentRetention))
	if err != nil {
		logger.Error("purge sent outbox events failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("purged sent outbox events", zap.Int64("count", n))
	}
}
