package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// UserConfig holds the scheduling settings supplied by the user.
type UserConfig struct {
	// Week holds the hour budget per weekday, Sunday first.
	Week []float64 `json:"week"`
	// Range is the [start, end] working-hour window used for today.
	Range []int `json:"range"`
	// MinHours is the smallest chunk worth allocating.
	MinHours float64 `json:"min_hours"`
	// MaxDays bounds the number of days in a schedule.
	MaxDays int `json:"max_days"`
	// FitDay limits due work to the hours left before midnight.
	FitDay bool `json:"fit_day"`
	// ArchiveDays is how long archived tasks are retained. Nil means the
	// default; 0 prunes archived tasks at the next build.
	ArchiveDays *int `json:"archive_days"`
	// Algorithm selects the scheduling strategy.
	Algorithm string `json:"algorithm"`
}

// DefaultUserConfig returns the settings used when none are configured.
func DefaultUserConfig() UserConfig {
	var c UserConfig
	c.SetDefaults()
	return c
}

// Days returns a pointer to n, for optional day counts.
func Days(n int) *int { return &n }

// Retention returns the archive retention in days.
func (c UserConfig) Retention() int {
	if c.ArchiveDays == nil {
		return 0
	}
	return *c.ArchiveDays
}

// SetDefaults fills unset fields.
func (c *UserConfig) SetDefaults() {
	if len(c.Week) == 0 {
		c.Week = []float64{8, 8, 8, 8, 8, 8, 8}
	}
	if len(c.Range) == 0 {
		c.Range = []int{8, 20}
	}
	if c.MaxDays == 0 {
		c.MaxDays = 14
	}
	if c.ArchiveDays == nil {
		c.ArchiveDays = Days(14)
	}
	if c.Algorithm == "" {
		c.Algorithm = "compact"
	}
}

// Validate checks the settings are usable by the planner.
func (c UserConfig) Validate() error {
	if len(c.Week) != 7 {
		return fmt.Errorf("%w: week needs 7 entries, got %d", ErrInvalidConfig, len(c.Week))
	}
	for i, h := range c.Week {
		if h < 0 || h > 24 {
			return fmt.Errorf("%w: week[%d]=%v outside 0..24", ErrInvalidConfig, i, h)
		}
	}
	if len(c.Range) != 2 {
		return fmt.Errorf("%w: range needs [start, end]", ErrInvalidConfig)
	}
	if c.Range[0] < 0 || c.Range[0] >= c.Range[1] || c.Range[1] > 24 {
		return fmt.Errorf("%w: range %v must satisfy 0 <= start < end <= 24", ErrInvalidConfig, c.Range)
	}
	if c.MinHours < 0 {
		return fmt.Errorf("%w: min_hours must not be negative", ErrInvalidConfig)
	}
	if c.MaxDays <= 0 {
		return fmt.Errorf("%w: max_days must be positive", ErrInvalidConfig)
	}
	if c.ArchiveDays != nil && *c.ArchiveDays < 0 {
		return fmt.Errorf("%w: archive_days must not be negative", ErrInvalidConfig)
	}
	if c.Algorithm == "" {
		return fmt.Errorf("%w: algorithm is required", ErrInvalidConfig)
	}
	return nil
}

// StartHour returns the first working hour of the day.
func (c UserConfig) StartHour() int { return c.Range[0] }

// EndHour returns the last working hour of the day.
func (c UserConfig) EndHour() int { return c.Range[1] }
