package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderreader/v1"
	"github.com/yunhanbi/finm250-quant-2025/pkg/config"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Reader represents a Kafka Reader for consuming messages from the order
// intake topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

var _ orderreaderv1.OrderReader = Reader{}

// NewReader creates a new Kafka reader for consuming messages from the order
// intake topic. It returns an implementation of the OrderReader interface.
func NewReader(config config.KafkaConfig, log logger.Interface) Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the Kafka topic and parses it as an
// order payload.
func (r Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderPayload, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{Offset: 0}, nil, err
	}

	var payload orderreaderv1.OrderPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		r.logError(err, "UnmarshalOrder")
		return kafka.Message{Offset: 0}, nil, err
	}

	r.logger.Info("ReadMessage",
		logger.Field{
			Key:   "id",
			Value: payload.ID,
		},
		logger.Field{
			Key:   "symbol",
			Value: payload.Symbol,
		},
		logger.Field{
			Key:   "side",
			Value: payload.Side,
		},
		logger.Field{
			Key:   "type",
			Value: payload.Type,
		},
		logger.Field{
			Key:   "quantity",
			Value: payload.Quantity,
		},
		logger.Field{
			Key:   "price",
			Value: payload.Price,
		},
	)

	payload.Offset = msg.Offset

	return msg, &payload, nil
}

// Close properly closes the Kafka reader.
func (r Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing. The reader
// runs without a consumer group, so offsets are tracked by the engine and
// there is nothing to commit broker-side.
func (r Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}
