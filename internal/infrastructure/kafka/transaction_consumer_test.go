package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	enginedto "github.com/apostamax/affiliate-service/internal/usecase/dto/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubscriber struct {
	messages chan domain.Message
}

func (s *stubSubscriber) Subscribe(topic, groupID string) (<-chan domain.Message, error) {
	return s.messages, nil
}

type recordingEngine struct {
	mu     sync.Mutex
	inputs []*enginedto.ProcessTransactionInput
}

func (e *recordingEngine) ProcessTransaction(input *enginedto.ProcessTransactionInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs = append(e.inputs, input)
	return nil
}

func (e *recordingEngine) snapshot() []*enginedto.ProcessTransactionInput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*enginedto.ProcessTransactionInput(nil), e.inputs...)
}

func TestTransactionConsumer_FeedsEngine(t *testing.T) {
	sub := &stubSubscriber{messages: make(chan domain.Message, 2)}
	engine := &recordingEngine{}
	consumer := NewTransactionConsumer(sub, engine, "test-group")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Start(ctx))

	occurred := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(TransactionEvent{
		TransactionID: "tx-1",
		CustomerID:    "cust-1",
		AffiliateID:   "aff-1",
		Type:          "DEPOSIT",
		Amount:        100,
		Currency:      "BRL",
		Status:        "PROCESSED",
		OccurredAt:    occurred.Format(time.RFC3339),
	})
	require.NoError(t, err)

	sub.messages <- domain.Message{Key: []byte("aff-1"), Value: payload}
	sub.messages <- domain.Message{Key: []byte("junk"), Value: []byte("not json")}

	require.Eventually(t, func() bool {
		return len(engine.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	inputs := engine.snapshot()
	assert.Equal(t, "tx-1", inputs[0].TransactionID)
	assert.Equal(t, "DEPOSIT", inputs[0].Type)
	assert.True(t, inputs[0].OccurredAt.Equal(occurred))

	// malformed payloads are dropped, not retried
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, engine.snapshot(), 1)
}
