package reportpublisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	reportpublisherv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/reportpublisher/v1"
	"github.com/yunhanbi/finm250-quant-2025/pkg/config"
	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Publisher represents a Kafka Publisher for publishing execution reports.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

var _ reportpublisherv1.ReportPublisher = (*Publisher)(nil)

// NewPublisher creates a new Kafka publisher for publishing execution reports.
func NewPublisher(config config.KafkaConfig, logger logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishReports publishes one batch of execution reports to the Kafka topic.
func (p *Publisher) PublishReports(ctx context.Context, batch *reportpublisherv1.ReportBatch) error {
	msg := kafka.Message{
		Key:   []byte(batch.Symbol),
		Value: reportpublisherv1.ToBytes(batch),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "symbol", Value: batch.Symbol},
			logger.Field{Key: "reportCount", Value: len(batch.Reports)},
		)
		return errors.NewTracer("failed to publish execution reports")
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
