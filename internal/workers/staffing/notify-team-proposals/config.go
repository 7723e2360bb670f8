package notifyteamproposals

import (
	"fmt"
	"time"

	"staffing-workers/internal/common/validation"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`

	SNSEnabled bool     `mapstructure:"sns_enabled"`
	TopicARN   string   `mapstructure:"topic_arn"`
	SESEnabled bool     `mapstructure:"ses_enabled"`
	FromEmail  string   `mapstructure:"from_email"`
	Recipients []string `mapstructure:"recipients"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.SNSEnabled && c.TopicARN == "" {
		return fmt.Errorf("topic_arn is required when sns is enabled")
	}
	if c.SESEnabled {
		if c.FromEmail == "" {
			return fmt.Errorf("from_email is required when ses is enabled")
		}
		if !validation.ValidateEmail(c.FromEmail) {
			return fmt.Errorf("from_email %q is not a valid address", c.FromEmail)
		}
		if len(c.Recipients) == 0 {
			return fmt.Errorf("at least one recipient is required when ses is enabled")
		}
		for _, r := range c.Recipients {
			if !validation.ValidateEmail(r) {
				return fmt.Errorf("recipient %q is not a valid address", r)
			}
		}
	}
	return nil
}
