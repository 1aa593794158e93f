package config

import (
	"github.com/yunhanbi/finm250-quant-2025/pkg/postgresql"
	"github.com/yunhanbi/finm250-quant-2025/pkg/questdb"
	"github.com/yunhanbi/finm250-quant-2025/pkg/redis"
)

// KafkaConfig holds the configuration for one Kafka topic endpoint.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// EngineConfig holds the configuration for the matching engine service.
type EngineConfig struct {
	Symbol string `env:"SYMBOL,required"`

	OrderReader     KafkaConfig `envPrefix:"KAFKA_ORDERS_"`
	ReportPublisher KafkaConfig `envPrefix:"KAFKA_REPORTS_"`

	Redis      redis.Config      `envPrefix:"REDIS_"`
	QuestDB    questdb.Config    `envPrefix:"QUESTDB_"`
	PostgreSQL postgresql.Config `envPrefix:"POSTGRES_"`
}

// BacktestConfig holds the configuration for the backtest command.
type BacktestConfig struct {
	Strategy string `env:"STRATEGY" envDefault:"trend_following"`
	Symbol   string `env:"SYMBOL,required"`
	// PairSymbol is the hedge leg, used only by the pairs strategy.
	PairSymbol   string  `env:"PAIR_SYMBOL"`
	Interval     string  `env:"INTERVAL" envDefault:"1d"`
	StartingCash float64 `env:"STARTING_CASH" envDefault:"100000"`

	QuestDB questdb.Config `envPrefix:"QUESTDB_"`
}
