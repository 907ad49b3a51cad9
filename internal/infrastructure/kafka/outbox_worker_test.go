package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOutbox struct {
	mu     sync.Mutex
	events map[int64]*usecase.OutboxEvent
}

func newMemOutbox(events ...*usecase.OutboxEvent) *memOutbox {
	m := &memOutbox{events: make(map[int64]*usecase.OutboxEvent)}
	for _, ev := range events {
		ev.Status = usecase.Pending
		m.events[ev.ID] = ev
	}
	return m
}

func (m *memOutbox) Create(_ context.Context, ev *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	return ev, nil
}

func (m *memOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*usecase.OutboxEvent
	for id := int64(1); id <= int64(len(m.events)) && len(out) < limit; id++ {
		ev, ok := m.events[id]
		if !ok || ev.Status != usecase.Pending {
			continue
		}
		ev.Status = usecase.Processing
		cp := *ev
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	return m.set(id, usecase.Processed)
}

func (m *memOutbox) ReturnToPending(_ context.Context, id int64) error {
	return m.set(id, usecase.Pending)
}

func (m *memOutbox) MarkAsFailed(_ context.Context, id int64) error {
	return m.set(id, usecase.Failed)
}

func (m *memOutbox) set(id int64, status usecase.OutboxStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev := m.events[id]
	if status != usecase.Processed {
		ev.Attempts++
	}
	ev.Status = status
	return nil
}

func (m *memOutbox) status(id int64) usecase.OutboxStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id].Status
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []*usecase.WriteRawMessageReq
	fail map[string]error
}

func (p *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail[req.ProductID]; err != nil {
		return err
	}
	p.sent = append(p.sent, req)
	return nil
}

func outboxEvent(id int64, productID string) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:        id,
		EventID:   "ev-" + productID,
		EventType: usecase.PriceChanged,
		ProductID: productID,
		Payload:   []byte(`{"productId":"` + productID + `"}`),
	}
}

func TestOutboxWorker_Drain(t *testing.T) {
	t.Run("all events sent and marked processed", func(t *testing.T) {
		var events []*usecase.OutboxEvent
		for i := int64(1); i <= 25; i++ {
			events = append(events, outboxEvent(i, "p"+string(rune('a'+i))))
		}
		repo := newMemOutbox(events...)
		producer := &fakeProducer{}
		w := NewOutboxWorker(repo, logger.Nop{}, producer, "")

		w.drain(context.Background())

		assert.Len(t, producer.sent, 25)
		for i := int64(1); i <= 25; i++ {
			assert.Equal(t, usecase.Processed, repo.status(i))
		}
		assert.Equal(t, "pb", producer.sent[0].ProductID)
	})

	t.Run("temporary error returns event to pending", func(t *testing.T) {
		repo := newMemOutbox(outboxEvent(1, "ok"), outboxEvent(2, "down"))
		producer := &fakeProducer{fail: map[string]error{"down": errors.New("dial tcp: connection refused")}}
		w := NewOutboxWorker(repo, logger.Nop{}, producer, "")

		w.drain(context.Background())

		assert.Equal(t, usecase.Processed, repo.status(1))
		assert.Equal(t, usecase.Pending, repo.status(2))
		require.Len(t, producer.sent, 1)
	})

	t.Run("permanent error marks event failed", func(t *testing.T) {
		repo := newMemOutbox(outboxEvent(1, "bad"))
		producer := &fakeProducer{fail: map[string]error{"bad": errors.New("message too large")}}
		w := NewOutboxWorker(repo, logger.Nop{}, producer, "")

		w.drain(context.Background())

		assert.Equal(t, usecase.Failed, repo.status(1))
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		ev := outboxEvent(1, "down")
		repo := newMemOutbox(ev)
		repo.events[1].Attempts = maxAttempts - 1
		producer := &fakeProducer{fail: map[string]error{"down": errors.New("i/o timeout")}}
		w := NewOutboxWorker(repo, logger.Nop{}, producer, "")

		w.drain(context.Background())

		assert.Equal(t, usecase.Failed, repo.status(1))
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.True(t, isRetryableError(context.DeadlineExceeded))
	assert.True(t, isRetryableError(errors.New("Broker Not Available")))
	assert.False(t, isRetryableError(errors.New("invalid message")))
}

func TestNewPriceMessage(t *testing.T) {
	msg := NewPriceMessage(usecase.NewWriteRawMessageReq("p-1", []byte(`{}`)))

	assert.Equal(t, []byte("p-1"), msg.Key)
	assert.Equal(t, []byte(`{}`), msg.Value)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("price.changed"), msg.Headers[0].Value)
}
