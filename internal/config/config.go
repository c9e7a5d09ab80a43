package config

import (
	"fmt"

	pkgconfig "github.com/vindenez/Matplaner-backend/pkg/config"
)

// Config holds all configuration for the Matplaner backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"matplaner"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"matplaner_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"matplaner"`
	PostgresSSL  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"matplaner-backend"`

	// Price feed ingestion
	FeedBaseURL  string `env:"FEED_BASE_URL" envDefault:"https://kassal.app/api/v1"`
	FeedToken    string `env:"FEED_TOKEN"`
	FeedPageSize int    `env:"FEED_PAGE_SIZE" envDefault:"100"`
	FeedMaxPages int    `env:"FEED_MAX_PAGES" envDefault:"1000"`

	// Cron spec for the daily catalog ingestion
	IngestSchedule string `env:"INGEST_SCHEDULE" envDefault:"0 7 * * *"`
	IngestEnabled  bool   `env:"INGEST_ENABLED" envDefault:"true"`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.FeedPageSize < 1 {
		return fmt.Errorf("invalid feed page size: %d", c.FeedPageSize)
	}
	if c.FeedMaxPages < 1 {
		return fmt.Errorf("invalid feed max pages: %d", c.FeedMaxPages)
	}
	return nil
}
