package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-leavesync/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event := kafka.OutboxEvent{
		ID:            "0d2a3c2e-9f55-4b0e-a4a8-0c8b14c1d001",
		RequestID:     "rid-1",
		AggregateType: "leave",
		AggregateID:   "0d2a3c2e-9f55-4b0e-a4a8-0c8b14c1d002",
		EventType:     "leave_sync_succeeded",
		Topic:         "hr.leave.sync.v1",
		Payload:       []byte(`{"sync_status":"synced"}`),
		Status:        kafka.OutboxStatusPending,
	}

	t.Run("outside a transaction", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO outbox_events").
			WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID,
				event.EventType, event.Topic, event.Payload, event.Status).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.Create(context.Background(), event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inside a transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO outbox_events").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)
		assert.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	next := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow("o-1", "rid-1", "leave", "l-1", "leave_sync_failed", "hr.leave.sync.v1", []byte(`{}`), kafka.OutboxStatusFailed, 2, next)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.MaxOutboxRetries, 50).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "rid-1", events[0].RequestID)
		assert.Equal(t, 2, events[0].RetryCount)
		assert.Equal(t, next, events[0].NextRetryAt)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o-1", kafka.OutboxStatusFailed, "broker unavailable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "o-1", "broker unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "o-1", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.EqualError(t, kafka.ValidateOutboxEvent(missingTopic), "outbox topic is required")

	badStatus := valid
	badStatus.Status = "queued"
	assert.EqualError(t, kafka.ValidateOutboxEvent(badStatus), "invalid outbox status: queued")
}

func TestOutboxRepository_PurgeSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM outbox_events").
		WithArgs(kafka.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := kafka.NewOutboxRepository(db).PurgeSent(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
