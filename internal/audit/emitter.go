package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/pkg/breaker"
)

// Emitter publishes audit events for every state transition. Delivery is
// best-effort relative to the transition itself: callers log a returned
// error and move on, they never roll back.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

type kafkaEmitter struct {
	producer sarama.SyncProducer
	topic    string
	cb       breaker.Breaker
	log      *zap.Logger
}

func NewEmitter(producer sarama.SyncProducer, topic string, log *zap.Logger) Emitter {
	return &kafkaEmitter{
		producer: producer,
		topic:    topic,
		cb:       breaker.New(20, 30*time.Second, 0.5, 5),
		log:      log.Named("audit"),
	}
}

func (e *kafkaEmitter) Emit(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.cb.Call(func() error {
		msg := &sarama.ProducerMessage{
			Topic: e.topic,
			Key:   sarama.StringEncoder(event.EntityID),
			Value: sarama.ByteEncoder(data),
		}
		if _, _, err := e.producer.SendMessage(msg); err != nil {
			e.log.Error("audit emit", zap.String("action", event.Action), zap.Error(err))
			return err
		}
		return nil
	})
}
