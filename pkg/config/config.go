package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	return env.Parse(cfg)
}

// FeedSource selects where order instructions are read from.
type FeedSource string

const (
	// FeedSourceKafka reads instructions from a Kafka topic.
	FeedSourceKafka FeedSource = "kafka"
	// FeedSourceFile reads instructions from a CSV file.
	FeedSourceFile FeedSource = "file"
)

// Config holds the configuration for the matching engine process.
type Config struct {
	Instrument string `env:"INSTRUMENT" envDefault:"STOCK"` // Instrument symbol this engine matches

	FeedConfig           `envPrefix:"FEED_"`
	KafkaConfig          `envPrefix:"KAFKA_"`
	TradePublisherConfig `envPrefix:"TRADE_PUBLISHER_"`
}

// FeedConfig selects and configures the instruction feed.
type FeedConfig struct {
	Source FeedSource `env:"SOURCE" envDefault:"kafka"`
	Path   string     `env:"PATH"` // instruction file path, required for the file source
}

// KafkaConfig holds the configuration for the order instruction consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC" envDefault:"orders"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}

// TradePublisherConfig holds the configuration for the trade event publisher.
type TradePublisherConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}
