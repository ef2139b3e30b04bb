package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-leavesync/internal/employee/errors"
	"go-leavesync/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// EmployeeMirror stores employees published by the upstream HR system.
type EmployeeMirror interface {
	CreateFromEvent(ctx context.Context, event events.EmployeeCreatedEvent) error
}

const defaultRetryDelay = 2 * time.Second

type Option func(*options)

type options struct {
	retryDelay time.Duration
}

// WithRetryDelay sets the pause after a fetch error and between attempts
// to mirror the same message.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.retryDelay = d
		}
	}
}

// ConsumeEmployeeLifecycle mirrors employee_created events into the local
// employee table until ctx is cancelled. Redelivered events are committed
// without creating a second row. A message whose mirror fails with a
// transient error is retried in place; later messages are not fetched
// until it is stored or ctx ends, so its offset is never committed past.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	mirror EmployeeMirror,
	logger *zap.Logger,
	opts ...Option,
) {
	o := options{retryDelay: defaultRetryDelay}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			if !sleep(ctx, o.retryDelay) {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			continue
		}

		for attempt := 1; !handleEmployeeMessage(ctx, reader, mirror, log, msg); attempt++ {
			log.Warn("retrying employee lifecycle message",
				zap.Int64("offset", msg.Offset),
				zap.Int("attempt", attempt),
			)
			if !sleep(ctx, o.retryDelay) {
				log.Info("employee lifecycle consumer stopped")
				return
			}
		}
	}
}

// handleEmployeeMessage reports whether msg is done with. false means the
// mirror failed transiently and msg was not committed.
func handleEmployeeMessage(
	ctx context.Context,
	reader MessageReader,
	mirror EmployeeMirror,
	log *zap.Logger,
	msg kafkago.Message,
) bool {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee_created event failed", zap.Error(err))
		commit(ctx, reader, log, msg)
		return true
	}

	if event.EventType != "" && event.EventType != events.EmployeeCreatedEventType {
		log.Debug("ignoring employee lifecycle event", zap.String("event_type", event.EventType))
		commit(ctx, reader, log, msg)
		return true
	}

	if err := mirror.CreateFromEvent(ctx, event); err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeAlreadyExists) {
			log.Warn("employee already mirrored, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("request_id", event.RequestID),
			)
			commit(ctx, reader, log, msg)
			return true
		}
		if errors.Is(err, employeeerrors.ErrInvalidEmployeeID) {
			log.Error("employee_created event has invalid id, dropping",
				zap.String("employee_id", event.EmployeeID),
			)
			commit(ctx, reader, log, msg)
			return true
		}

		log.Error("mirror employee failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		return false
	}

	if commit(ctx, reader, log, msg) {
		log.Info("employee mirrored from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("request_id", event.RequestID),
		)
	}
	return true
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func commit(ctx context.Context, reader MessageReader, log *zap.Logger, msg kafkago.Message) bool {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit employee lifecycle message failed", zap.Error(err))
		return false
	}
	return true
}
