package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	enginedto "github.com/apostamax/affiliate-service/internal/usecase/dto/engine"
)

// TransactionProcessor is the engine entry point the consumer feeds.
type TransactionProcessor interface {
	ProcessTransaction(input *enginedto.ProcessTransactionInput) error
}

// TransactionConsumer pumps at-least-once transaction events into the
// engine. Duplicate deliveries are harmless: the engine's idempotency
// guards swallow them.
type TransactionConsumer struct {
	subscriber domain.SubscriberPort
	engine     TransactionProcessor
	groupID    string
}

func NewTransactionConsumer(subscriber domain.SubscriberPort, engine TransactionProcessor, groupID string) *TransactionConsumer {
	return &TransactionConsumer{
		subscriber: subscriber,
		engine:     engine,
		groupID:    groupID,
	}
}

func (c *TransactionConsumer) Start(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(TopicTransactionEvents, c.groupID)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					slog.Error("transaction event stream closed")
					return
				}
				c.handle(msg)
			}
		}
	}()
	return nil
}

func (c *TransactionConsumer) handle(msg domain.Message) {
	var event TransactionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Error("failed to decode transaction event", "error", err.Error())
		return
	}

	occurredAt, err := time.Parse(time.RFC3339, event.OccurredAt)
	if err != nil {
		occurredAt = time.Now()
	}

	input := &enginedto.ProcessTransactionInput{
		TransactionID: event.TransactionID,
		ExternalID:    event.ExternalID,
		CustomerID:    event.CustomerID,
		AffiliateID:   event.AffiliateID,
		Type:          event.Type,
		Amount:        event.Amount,
		Currency:      event.Currency,
		Status:        event.Status,
		OccurredAt:    occurredAt,
	}
	if err := c.engine.ProcessTransaction(input); err != nil {
		slog.Error("failed to process transaction event",
			"transaction_id", event.TransactionID, "error", err.Error())
	}
}
