package marketdatav1

import (
	"time"
)

// Bar represents a single OHLCV bar for one symbol and interval.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Interval  string    `json:"interval"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Quote is a top-of-book snapshot derived from the book after a submit. A
// zero quantity on either side means that side is empty.
type Quote struct {
	Symbol    string    `json:"symbol"`
	BidPrice  float64   `json:"bidPrice"`
	BidQty    int64     `json:"bidQty"`
	AskPrice  float64   `json:"askPrice"`
	AskQty    int64     `json:"askQty"`
	Timestamp time.Time `json:"timestamp"`
}

// Spread returns the ask-bid spread. It is meaningless when either side is
// empty.
func (q *Quote) Spread() float64 {
	return q.AskPrice - q.BidPrice
}

// Mid returns the mid price. It is meaningless when either side is empty.
func (q *Quote) Mid() float64 {
	return (q.AskPrice + q.BidPrice) / 2
}
