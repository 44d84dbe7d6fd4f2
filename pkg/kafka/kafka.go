package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	AuditTopic         = "audit-events"
	AuditConsumerGroup = "borrowing-audit"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumerGroup(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer group loop until ctx is cancelled.
// sarama returns from Consume on every rebalance, hence the loop.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			log.Error("consumer group", zap.Error(err))
		}
		if ctx.Err() != nil {
			return group.Close()
		}
	}
}
