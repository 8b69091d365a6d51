package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// ReadBackoff is the pause after a transient feed read failure.
	ReadBackoff time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		ReadBackoff: 100 * time.Millisecond,
	}
}
