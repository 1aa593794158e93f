package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// QuoteInterval is how often the quote refresher re-derives and stores
	// the top-of-book quote, independent of order flow.
	QuoteInterval time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		QuoteInterval: 5 * time.Second,
	}
}
