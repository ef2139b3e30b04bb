package producer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leavesync/internal/messaging/kafka"
	kafkaMock "go-leavesync/internal/messaging/kafka/mock"
	"go-leavesync/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "o-1", RequestID: "rid-1", AggregateType: "leave", AggregateID: "leave-1", EventType: "leave_sync_succeeded", Topic: "hr.leave.sync.v1", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkSent(ctx, "o-1").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		if assert.Len(t, writer.messages, 1) {
			msg := writer.messages[0]
			assert.Equal(t, "hr.leave.sync.v1", msg.Topic)
			assert.Equal(t, "leave-1", string(msg.Key))
			assert.Equal(t, "leave_sync_succeeded", header(msg, "event_type"))
			assert.Equal(t, "rid-1", header(msg, "request_id"))
		}
	})

	t.Run("publish failure marks the event failed and continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failKey: "leave-1"}

		repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "o-1", AggregateID: "leave-1", Topic: "t", Payload: []byte(`{}`)},
			{ID: "o-2", AggregateID: "leave-2", Topic: "t", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkFailed(ctx, "o-1", "broker unavailable").Return(nil)
		repo.EXPECT().MarkSent(ctx, "o-2").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Len(t, writer.messages, 1)
	})

	t.Run("list failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(ctx, 50).Return(nil, errors.New("db down"))

		_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.EqualError(t, err, "db down")
	})
}

func TestPurgeSentEvents(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)

	now := time.Date(2024, 2, 8, 12, 0, 0, 0, time.UTC)
	repo.EXPECT().PurgeSent(ctx, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)).Return(int64(4), nil)

	producer.PurgeSentEvents(ctx, repo, zap.NewNop(), now)
}
