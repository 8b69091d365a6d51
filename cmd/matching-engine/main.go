package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/HuangeChen/OrderBook/internal/app/engine"
	orderreaderv1 "github.com/HuangeChen/OrderBook/internal/domain/order-reader/v1"
	tradepublisherv1 "github.com/HuangeChen/OrderBook/internal/domain/trade-publisher/v1"
	orderreader "github.com/HuangeChen/OrderBook/internal/usecase/order-reader"
	"github.com/HuangeChen/OrderBook/internal/usecase/orderbook"
	tradepublisher "github.com/HuangeChen/OrderBook/internal/usecase/trade-publisher"
	"github.com/HuangeChen/OrderBook/pkg/config"
	"github.com/HuangeChen/OrderBook/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var reader orderreaderv1.InstructionReader
	switch cfg.FeedConfig.Source {
	case config.FeedSourceFile:
		fileReader, err := orderreader.NewFileReader(cfg.FeedConfig.Path)
		if err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "open_instruction_file",
			})
			return
		}
		reader = fileReader
	default:
		reader = orderreader.NewReader(cfg.KafkaConfig, log)
	}

	var publisher tradepublisherv1.TradePublisher
	if cfg.TradePublisherConfig.Enabled {
		publisher = tradepublisher.NewPublisher(cfg.TradePublisherConfig, cfg.Instrument, log)
	}

	book := orderbook.NewOrderbook()
	engine := app.NewEngine(book, reader, publisher, log, cfg)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine running",
		logger.Field{Key: "instrument", Value: cfg.Instrument},
		logger.Field{Key: "feed", Value: cfg.FeedConfig.Source},
	)

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "close_trade_publisher",
			})
		}
	}

	log.Info("Matching engine shutdown complete")
}
