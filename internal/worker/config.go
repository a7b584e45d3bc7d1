// Package worker provides background job processing for the travel planner.
package worker

import (
	"time"
)

// WatchConfig holds configuration for the monitor watch job.
type WatchConfig struct {
	// Interval is how often the monitor feed is polled.
	// Default: 60 seconds
	Interval time.Duration

	// Timeout is the timeout for each poll.
	// Default: 15 seconds
	Timeout time.Duration

	// MaxBackoff caps the delay between polls after consecutive failures.
	// Default: 10 minutes
	MaxBackoff time.Duration

	// PublishAnomalies enables publishing anomaly transitions to Pub/Sub.
	// Default: true
	PublishAnomalies bool
}

// DefaultWatchConfig returns the default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Interval:         60 * time.Second,
		Timeout:          15 * time.Second,
		MaxBackoff:       10 * time.Minute,
		PublishAnomalies: true,
	}
}

// withDefaults fills in zero values.
func (c WatchConfig) withDefaults() WatchConfig {
	def := DefaultWatchConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = def.MaxBackoff
	}
	return c
}
