package walker

import "time"

// Config holds the pacing settings shared by every walker.
type Config struct {
	// RateLimitBackoffSeconds is the pause after a rate-limit response.
	RateLimitBackoffSeconds int `mapstructure:"rate_limit_backoff_seconds" default:"15"`
	// ItemDelayMS is the pause before each item.
	ItemDelayMS int `mapstructure:"item_delay_ms" default:"350"`
	// PageDelayMS is the pause before each page fetch.
	PageDelayMS int `mapstructure:"page_delay_ms" default:"1000"`
	// LockTTLSeconds is the lifetime of the per-kind run lock.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"60"`
}

// Options converts the config into walker options.
func (c Config) Options() Options {
	return Options{
		RateLimitBackoff: time.Duration(c.RateLimitBackoffSeconds) * time.Second,
		ItemDelay:        time.Duration(c.ItemDelayMS) * time.Millisecond,
		PageDelay:        time.Duration(c.PageDelayMS) * time.Millisecond,
		LockTTL:          time.Duration(c.LockTTLSeconds) * time.Second,
	}
}
