package generateteamproposals

import (
	"fmt"
	"time"

	"staffing-workers/internal/staffing/teambuilder"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// CombinationCeiling is passed to the generator; 0 means unlimited.
	CombinationCeiling int64 `mapstructure:"combination_ceiling"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:            true,
		MaxJobsActive:      2,
		Timeout:            60 * time.Second,
		CombinationCeiling: teambuilder.DefaultCombinationCeiling,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.CombinationCeiling < 0 {
		return fmt.Errorf("combination_ceiling must not be negative")
	}
	return nil
}
