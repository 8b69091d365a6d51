package tradepublisher

import (
	"context"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	tradepublisherv1 "github.com/HuangeChen/OrderBook/internal/domain/trade-publisher/v1"
	"github.com/HuangeChen/OrderBook/pkg/config"
	"github.com/HuangeChen/OrderBook/pkg/errors"
	"github.com/HuangeChen/OrderBook/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher publishes trade events to a Kafka topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	instrument  string
	logger      logger.Interface
}

// NewPublisher creates a Kafka publisher for trade events.
func NewPublisher(cfg config.TradePublisherConfig, instrument string, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		instrument:  instrument,
		logger:      log,
	}
}

// Publish writes one message per trade.
func (p *Publisher) Publish(ctx context.Context, trades []orderv1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		event := tradepublisherv1.FromTrade(p.instrument, trade)
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.TradeID),
			Value: event.ToBytes(),
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "action", Value: "publish_trades"},
			logger.Field{Key: "count", Value: len(trades)},
		)
		return errors.NewTracerWithCode(errors.KafkaPublishError, "failed to publish trade events").Wrap(err)
	}
	return nil
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
