package audit

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type persistEntry func(ctx context.Context, event Event) error

// Consumer drains the audit topic into the append-only audit log.
// One instance serves every consumer-group session: the Consume loop
// re-invokes it after each rebalance, so Setup must stay re-entrant.
type Consumer struct {
	persist persistEntry
	log     *zap.Logger
}

func NewConsumer(persist persistEntry, log *zap.Logger) *Consumer {
	return &Consumer{
		persist: persist,
		log:     log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event Event
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal audit event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.persist(context.Background(), event); err != nil {
				consumer.log.Error("persist audit entry", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
