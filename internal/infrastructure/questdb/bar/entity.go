package bar

import "time"

// Filter represents the filter criteria for bar data.
type Filter struct {
	Symbol   string
	Interval string
	From     *time.Time
	To       *time.Time
	Limit    int32
}
