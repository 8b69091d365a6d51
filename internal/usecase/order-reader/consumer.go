package orderreader

import (
	"context"
	"encoding/json"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/HuangeChen/OrderBook/pkg/config"
	"github.com/HuangeChen/OrderBook/pkg/errors"
	"github.com/HuangeChen/OrderBook/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// instructionPayload is the JSON wire form of one order instruction.
type instructionPayload struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	Side     string          `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// Reader consumes order instructions from a Kafka topic. It implements the
// InstructionReader interface.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a Kafka reader for the order instruction topic.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// Read blocks for the next message and parses it into an instruction.
func (r *Reader) Read(ctx context.Context) (orderv1.Instruction, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		return orderv1.Instruction{}, errors.NewTracerWithCode(errors.KafkaReadError, "failed to read order message").Wrap(err)
	}

	var payload instructionPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return orderv1.Instruction{}, errors.NewTracerWithCode(errors.FeedParseError, "malformed order payload").Wrap(err)
	}

	inst, err := parseInstruction(payload)
	if err != nil {
		return orderv1.Instruction{}, err
	}

	r.logger.Debug("instruction received",
		logger.Field{Key: "id", Value: inst.ID},
		logger.Field{Key: "type", Value: inst.Type},
		logger.Field{Key: "side", Value: inst.Side},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return inst, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	return r.kafkaReader.Close()
}

// parseInstruction converts the wire payload into a typed instruction.
// Unknown types and sides are rejected rather than defaulted.
func parseInstruction(p instructionPayload) (orderv1.Instruction, error) {
	orderType, err := orderv1.ParseType(p.Type)
	if err != nil {
		return orderv1.Instruction{}, err
	}
	side, err := orderv1.ParseSide(p.Side)
	if err != nil {
		return orderv1.Instruction{}, err
	}

	return orderv1.Instruction{
		ID:       p.ID,
		Type:     orderType,
		Side:     side,
		Price:    p.Price,
		Quantity: p.Quantity,
	}, nil
}
