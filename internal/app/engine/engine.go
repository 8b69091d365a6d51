package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	bookv1 "github.com/HuangeChen/OrderBook/internal/domain/book/v1"
	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	orderreaderv1 "github.com/HuangeChen/OrderBook/internal/domain/order-reader/v1"
	tradepublisherv1 "github.com/HuangeChen/OrderBook/internal/domain/trade-publisher/v1"
	"github.com/HuangeChen/OrderBook/pkg/config"
	"github.com/HuangeChen/OrderBook/pkg/logger"
	"github.com/HuangeChen/OrderBook/pkg/util"
)

// Engine drives the matching loop: it reads instructions from the feed,
// submits them to the book one at a time, and publishes the resulting
// trades. Instructions are processed strictly in arrival order; an
// instruction is fully handled, cascade included, before the next is read.
type Engine struct {
	book      bookv1.Book
	reader    orderreaderv1.InstructionReader
	publisher tradepublisherv1.TradePublisher // optional
	logger    *logger.Logger
	config    *config.Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	readBackoff time.Duration

	mu          sync.RWMutex
	processed   int64
	rejected    int64
	totalTrades int64
}

// NewEngine creates a new Engine with the provided dependencies. The
// publisher may be nil; trades are then only logged.
func NewEngine(
	book bookv1.Book,
	reader orderreaderv1.InstructionReader,
	publisher tradepublisherv1.TradePublisher,
	log *logger.Logger,
	cfg *config.Config,
) *Engine {
	return NewEngineWithOptions(book, reader, publisher, log, cfg, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	book bookv1.Book,
	reader orderreaderv1.InstructionReader,
	publisher tradepublisherv1.TradePublisher,
	log *logger.Logger,
	cfg *config.Config,
	options *Options,
) *Engine {
	return &Engine{
		book:        book,
		reader:      reader,
		publisher:   publisher,
		logger:      log,
		config:      cfg,
		readBackoff: options.ReadBackoff,
	}
}

// Start begins processing instructions until the context is cancelled or the
// feed is exhausted.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runInstructionProcessor()

	e.logger.Info("Matching engine started", logger.Field{
		Key:   "instrument",
		Value: e.config.Instrument,
	})

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Matching engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runInstructionProcessor reads and processes instructions in a single
// goroutine so ordering is never violated.
func (e *Engine) runInstructionProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting instruction processor", logger.Field{
		Key:   "instrument",
		Value: e.config.Instrument,
	})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Instruction processor shutting down")
			e.reader.Close()
			return
		default:
			inst, err := e.reader.Read(e.ctx)
			if err != nil {
				if errors.Is(err, io.EOF) {
					e.logger.Info("Instruction feed exhausted", logger.Field{
						Key:   "processed",
						Value: e.Processed(),
					})
					e.reader.Close()
					return
				}
				if errors.Is(err, context.Canceled) {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_instruction",
				})
				time.Sleep(e.readBackoff)
				continue
			}

			e.ProcessInstruction(inst)
		}
	}
}

// ProcessInstruction submits one instruction to the book and reports its
// outcome. Rejections are logged and counted, never retried.
func (e *Engine) ProcessInstruction(inst orderv1.Instruction) {
	result, err := e.book.Submit(inst)
	if err != nil {
		e.mu.Lock()
		e.rejected++
		e.mu.Unlock()

		e.logger.Warn("Instruction rejected",
			logger.Field{Key: "id", Value: inst.ID},
			logger.Field{Key: "type", Value: inst.Type},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return
	}

	e.mu.Lock()
	e.processed++
	e.totalTrades += int64(len(result.Trades))
	currentTotal := e.totalTrades
	e.mu.Unlock()

	if len(result.Trades) > 0 {
		e.logTrades(result.Trades, currentTotal)
		e.publishTrades(util.WithRequestID(e.ctx, ""), result.Trades)
	}
	if result.Rested != nil {
		e.logger.Debug("Order resting",
			logger.Field{Key: "id", Value: result.Rested.ID},
			logger.Field{Key: "type", Value: result.Rested.Type},
			logger.Field{Key: "side", Value: result.Rested.Side},
			logger.Field{Key: "price", Value: result.Rested.Price},
			logger.Field{Key: "quantity", Value: result.Rested.Quantity},
		)
	}
	if result.Cancelled != nil {
		e.logger.Debug("Order cancelled",
			logger.Field{Key: "id", Value: result.Cancelled.ID},
			logger.Field{Key: "type", Value: result.Cancelled.Type},
		)
	}
}

// logTrades logs each executed trade.
func (e *Engine) logTrades(trades []orderv1.Trade, currentTotal int64) {
	e.logger.Info("Trades executed",
		logger.Field{Key: "tradeCount", Value: len(trades)},
		logger.Field{Key: "totalTrades", Value: currentTotal},
	)

	for i, trade := range trades {
		e.logger.Info("Trade",
			logger.Field{Key: "tradeIndex", Value: i + 1},
			logger.Field{Key: "tradeID", Value: trade.ID},
			logger.Field{Key: "price", Value: trade.Price},
			logger.Field{Key: "volume", Value: trade.Volume},
			logger.Field{Key: "makerID", Value: trade.MakerID},
			logger.Field{Key: "takerID", Value: trade.TakerID},
		)
	}
}

// publishTrades forwards trades to the publisher when one is configured.
func (e *Engine) publishTrades(ctx context.Context, trades []orderv1.Trade) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, trades); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_trades",
		})
	}
}

// Processed returns the number of accepted instructions.
func (e *Engine) Processed() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.processed
}

// Rejected returns the number of rejected instructions.
func (e *Engine) Rejected() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rejected
}

// TotalTrades returns the total number of trades executed.
func (e *Engine) TotalTrades() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalTrades
}
