package scheduler

import "time"

// Config holds the scheduler settings.
type Config struct {
	// Enabled starts the scheduler with the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// IntervalMinutes is the pause between two ticks.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"30"`
	// RunOnStart triggers a tick as soon as the scheduler starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
}

// Interval returns the tick period, defaulting to 30 minutes.
func (c Config) Interval() time.Duration {
	if c.IntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.IntervalMinutes) * time.Minute
}
