package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	employeeerrors "go-leavesync/internal/employee/errors"
	"go-leavesync/internal/events"
	"go-leavesync/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves queued messages, then cancels the consumer.
type fakeReader struct {
	queue     []kafkago.Message
	fetchErrs []error
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafkago.Message{}, err
	}
	if len(r.queue) == 0 {
		r.cancel()
		return kafkago.Message{}, context.Canceled
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) offsets() []int64 {
	var out []int64
	for _, m := range r.committed {
		out = append(out, m.Offset)
	}
	return out
}

type fakeMirror struct {
	created  []events.EmployeeCreatedEvent
	errFor   map[string]error
	failures map[string]int
	attempts map[string]int
	onFail   func()
}

func (m *fakeMirror) CreateFromEvent(ctx context.Context, event events.EmployeeCreatedEvent) error {
	if m.attempts == nil {
		m.attempts = map[string]int{}
	}
	m.attempts[event.EmployeeID]++
	if err, ok := m.errFor[event.EmployeeID]; ok {
		return err
	}
	if m.failures[event.EmployeeID] > 0 {
		m.failures[event.EmployeeID]--
		if m.onFail != nil {
			m.onFail()
		}
		return errors.New("db down")
	}
	m.created = append(m.created, event)
	return nil
}

func message(t *testing.T, offset int64, event events.EmployeeCreatedEvent) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(event)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: b}
}

func created(id string) events.EmployeeCreatedEvent {
	return events.EmployeeCreatedEvent{EventType: events.EmployeeCreatedEventType, EmployeeID: id, FullName: id}
}

func TestConsumeEmployeeLifecycle(t *testing.T) {
	fast := consumer.WithRetryDelay(time.Millisecond)

	t.Run("commit policy", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &fakeReader{cancel: cancel}
		reader.queue = []kafkago.Message{
			message(t, 1, created("e-1")),
			message(t, 2, created("e-dup")),
			message(t, 3, created("e-bad-id")),
			{Offset: 4, Value: []byte("not json")},
			message(t, 5, events.EmployeeCreatedEvent{EventType: "employee_deleted", EmployeeID: "e-2"}),
		}
		mirror := &fakeMirror{errFor: map[string]error{
			"e-dup":    employeeerrors.ErrEmployeeAlreadyExists,
			"e-bad-id": employeeerrors.ErrInvalidEmployeeID,
		}}

		consumer.ConsumeEmployeeLifecycle(ctx, reader, mirror, zap.NewNop(), fast)

		if assert.Len(t, mirror.created, 1) {
			assert.Equal(t, "e-1", mirror.created[0].FullName)
		}
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, reader.offsets())
	})

	t.Run("transient failure is retried before the next message", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &fakeReader{cancel: cancel}
		reader.queue = []kafkago.Message{
			message(t, 1, created("e-flaky")),
			message(t, 2, created("e-2")),
		}
		mirror := &fakeMirror{failures: map[string]int{"e-flaky": 2}}

		consumer.ConsumeEmployeeLifecycle(ctx, reader, mirror, zap.NewNop(), fast)

		assert.Equal(t, 3, mirror.attempts["e-flaky"])
		if assert.Len(t, mirror.created, 2) {
			assert.Equal(t, "e-flaky", mirror.created[0].EmployeeID)
			assert.Equal(t, "e-2", mirror.created[1].EmployeeID)
		}
		assert.Equal(t, []int64{1, 2}, reader.offsets())
	})

	t.Run("shutdown during retry leaves the message uncommitted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &fakeReader{cancel: cancel}
		reader.queue = []kafkago.Message{
			message(t, 1, created("e-broken")),
			message(t, 2, created("e-2")),
		}
		mirror := &fakeMirror{failures: map[string]int{"e-broken": 5}, onFail: cancel}

		consumer.ConsumeEmployeeLifecycle(ctx, reader, mirror, zap.NewNop(), consumer.WithRetryDelay(time.Hour))

		assert.Equal(t, 1, mirror.attempts["e-broken"])
		assert.Empty(t, mirror.created)
		assert.Empty(t, reader.committed)
		assert.Len(t, reader.queue, 1)
	})

	t.Run("fetch error backs off and continues", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &fakeReader{cancel: cancel, fetchErrs: []error{errors.New("broker unavailable")}}
		reader.queue = []kafkago.Message{message(t, 7, created("e-1"))}
		mirror := &fakeMirror{}

		consumer.ConsumeEmployeeLifecycle(ctx, reader, mirror, zap.NewNop(), fast)

		assert.Len(t, mirror.created, 1)
		assert.Equal(t, []int64{7}, reader.offsets())
	})
}
