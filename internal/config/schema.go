package config

import (
	"fmt"
	"time"

	"cadence/internal/timeline"
)

// Conflict policies applied by the scheduling service before a write.
const (
	PolicyWarn           = "warn"
	PolicyBlockProtected = "block_protected"
	PolicyBlock          = "block"
)

// Config represents the full cadence configuration
type Config struct {
	// Data directory holding the databases and cadence.yaml
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// HTTP listen address for `cadence serve`
	Addr string `yaml:"addr" mapstructure:"addr"`

	// IANA zone used to interpret calendar days
	TimeZone string `yaml:"timezone" mapstructure:"timezone"`

	WeekStartsOn string `yaml:"week_starts_on" mapstructure:"week_starts_on"`

	// One of warn, block_protected, block
	ConflictPolicy string `yaml:"conflict_policy" mapstructure:"conflict_policy"`

	// Desktop notification when a write is rejected
	Notify bool `yaml:"notify" mapstructure:"notify"`

	Coach CoachConfig `yaml:"coach" mapstructure:"coach"`
}

// CoachConfig configures the external text generator used to fill in
// milestone key deliverables.
type CoachConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Command string        `yaml:"command" mapstructure:"command"`
	Args    []string      `yaml:"args" mapstructure:"args"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Weekday parses week_starts_on.
func (c *Config) Weekday() (time.Weekday, error) {
	return timeline.ParseWeekday(c.WeekStartsOn)
}

// Validate checks values that cannot be fixed up with defaults.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Weekday(); err != nil {
		return fmt.Errorf("week_starts_on: %w", err)
	}
	switch c.ConflictPolicy {
	case PolicyWarn, PolicyBlockProtected, PolicyBlock:
	default:
		return fmt.Errorf("conflict_policy must be %q, %q or %q, got %q",
			PolicyWarn, PolicyBlockProtected, PolicyBlock, c.ConflictPolicy)
	}
	if c.Coach.Enabled && c.Coach.Command == "" {
		return fmt.Errorf("coach.command is required when coach.enabled is true")
	}
	return nil
}
