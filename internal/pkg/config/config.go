package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Queue QueueConfig
	Sim   SimConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=logistics_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type QueueConfig struct {
	// Workers is the number of dispatcher shards. Zero disables the async
	// path entirely; creation requests then always run synchronously.
	Workers int `env:"QUEUE_WORKERS, default=8"`
}

type SimConfig struct {
	// TickInterval drives the background simulation scheduler. Zero or
	// negative disables it; ticks then only run via the API.
	TickInterval time.Duration `env:"SIM_TICK_INTERVAL, default=0s"`
	// StreamPingInterval is the SSE keep-alive cadence.
	StreamPingInterval time.Duration `env:"STREAM_PING_INTERVAL, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
