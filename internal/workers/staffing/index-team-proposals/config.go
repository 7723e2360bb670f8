package indexteamproposals

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Index         string        `mapstructure:"index"`
	// Refresh is passed through to the index request ("", "true", "wait_for").
	Refresh string `mapstructure:"refresh"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       15 * time.Second,
		Index:         "team-proposals",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.Index == "" {
		return fmt.Errorf("index is required")
	}
	switch c.Refresh {
	case "", "true", "false", "wait_for":
	default:
		return fmt.Errorf("refresh must be one of true, false, wait_for")
	}
	return nil
}
