package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type ConsumerFunc func(ctx context.Context, consumer *kafka.Consumer) error

// StartConsumer opens a consumer for cfg.RequestTopic, runs consumerFunc until
// it returns, then closes the consumer. consumerFunc's error is returned.
func StartConsumer(ctx context.Context, cfg KafkaConfig, consumerFunc ConsumerFunc) error {
	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("[ConsumerFactory] Failed to initialize Kafka consumer: %w", err)
	}
	defer consumer.Close()

	slog.Info("[ConsumerFactory] Starting consumer for topic...", slog.String("topic", cfg.RequestTopic))
	if err := consumerFunc(ctx, consumer); err != nil {
		return fmt.Errorf("[ConsumerFactory] Consumer stopped: %w", err)
	}

	return nil
}
