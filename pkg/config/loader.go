package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using `env`
// tags.
//
// Example:
//
//	type Config struct {
//	    FeedBaseURL  string `env:"FEED_BASE_URL" envDefault:"https://kassal.app/api/v1"`
//	    FeedPageSize int    `env:"FEED_PAGE_SIZE" envDefault:"100"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
