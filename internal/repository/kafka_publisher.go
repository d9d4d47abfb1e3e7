package repository

import (
	"context"

	"TickForge/internal/domain/models"
	"TickForge/internal/domain/repository"
	pkgkafka "TickForge/pkg/kafka"
)

// KafkaPublisher fans tick snapshots and news events out to Kafka. Messages
// are keyed by ticker so per-ticker ordering is preserved under the hash
// balancer.
type KafkaPublisher struct {
	producer   *pkgkafka.Producer
	ticksTopic string
	newsTopic  string
}

// NewKafkaPublisher creates the Kafka bus publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, ticksTopic, newsTopic string) repository.BusPublisher {
	return &KafkaPublisher{
		producer:   producer,
		ticksTopic: ticksTopic,
		newsTopic:  newsTopic,
	}
}

// tickMessages maps tick snapshots to Kafka messages keyed by ticker.
func tickMessages(quotes []models.Quote) []pkgkafka.Message {
	msgs := make([]pkgkafka.Message, len(quotes))
	for i, q := range quotes {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(q.Ticker),
			Value: q,
		}
	}
	return msgs
}

// newsMessages maps news events to Kafka messages keyed by ticker.
func newsMessages(events []models.NewsEvent) []pkgkafka.Message {
	msgs := make([]pkgkafka.Message, len(events))
	for i, ev := range events {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(ev.Ticker),
			Value: ev,
		}
	}
	return msgs
}

func (p *KafkaPublisher) PublishTicks(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	return p.producer.PublishBatch(ctx, p.ticksTopic, tickMessages(quotes))
}

func (p *KafkaPublisher) PublishNews(ctx context.Context, events []models.NewsEvent) error {
	if len(events) == 0 {
		return nil
	}
	return p.producer.PublishBatch(ctx, p.newsTopic, newsMessages(events))
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
