package repository

import (
	"context"
	"fmt"

	domrepo "VolPath/internal/domain/repository"
	"VolPath/pkg/kafka"
	applogger "VolPath/pkg/logger"
)

// KafkaPublisher publishes finished run summaries to a Kafka topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *applogger.Logger
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher bound to a topic.
func NewKafkaPublisher(producer *kafka.Producer, topic string, l *applogger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   l,
	}
}

// PublishRun emits the run summary keyed by scenario so replays of the
// same scenario land on the same partition.
func (p *KafkaPublisher) PublishRun(ctx context.Context, s *domrepo.RunSummary) error {
	if s == nil {
		return fmt.Errorf("nil run summary")
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(s.ScenarioKey), s); err != nil {
		return fmt.Errorf("publish run summary: %w", err)
	}
	if p.logger != nil {
		p.logger.Debug("run summary published",
			applogger.String("topic", p.topic),
			applogger.String("scenario", s.ScenarioKey),
			applogger.Int("paths", s.NPaths),
		)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
