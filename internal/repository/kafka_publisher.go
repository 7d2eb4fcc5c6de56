package repository

import (
	"context"

	"CoinScout/internal/domain/models"
	"CoinScout/internal/domain/repository"
	pkgkafka "CoinScout/pkg/kafka"
)

// KafkaScorePublisher emits one breakdown event per symbol per cycle,
// keyed by symbol so per-symbol ordering survives partitioning.
type KafkaScorePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaScorePublisher creates a Kafka score publisher.
func NewKafkaScorePublisher(producer *pkgkafka.Producer, topic string) repository.ScorePublisher {
	return &KafkaScorePublisher{producer: producer, topic: topic}
}

func (p *KafkaScorePublisher) PublishBreakdowns(ctx context.Context, breakdowns []models.ScoreBreakdown) error {
	if len(breakdowns) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(breakdowns))
	for i, b := range breakdowns {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(b.Symbol),
			Value: b,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaScorePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopScorePublisher is used when Kafka is disabled.
type NopScorePublisher struct{}

func (NopScorePublisher) PublishBreakdowns(context.Context, []models.ScoreBreakdown) error {
	return nil
}

func (NopScorePublisher) Close() error { return nil }

var _ repository.ScorePublisher = NopScorePublisher{}
