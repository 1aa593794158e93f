package strategy

import (
	"math"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
)

// TrendFollowing emits a signal when the short moving average crosses the
// long one: buy on an upward cross, sell on a downward cross. Only the
// crossover bars trade; while the relation holds nothing is emitted.
type TrendFollowing struct {
	ShortWindow int
	LongWindow  int
	MaxPos      int64
}

// NewTrendFollowing creates a trend-following generator with 20/50 windows.
func NewTrendFollowing() *TrendFollowing {
	return &TrendFollowing{
		ShortWindow: 20,
		LongWindow:  50,
		MaxPos:      defaultMaxPos,
	}
}

// Name returns the strategy name.
func (s *TrendFollowing) Name() string {
	return "trend_following"
}

// Signals scans the bars, oldest first, and returns the crossover trades.
func (s *TrendFollowing) Signals(bars []marketdatav1.Bar) []Signal {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	maShort := rollingMean(closes, s.ShortWindow, s.ShortWindow)
	maLong := rollingMean(closes, s.LongWindow, s.LongWindow)

	var signals []Signal
	prev := 0
	for i := range bars {
		direction := 0
		if !math.IsNaN(maShort[i]) && !math.IsNaN(maLong[i]) {
			switch {
			case maShort[i] > maLong[i]:
				direction = 1
			case maShort[i] < maLong[i]:
				direction = -1
			}
		}

		if direction != 0 && direction != prev {
			signals = append(signals, Signal{
				Timestamp: bars[i].Timestamp,
				Symbol:    bars[i].Symbol,
				Side:      sideFor(direction),
				Quantity:  s.MaxPos,
				Price:     bars[i].Close,
			})
		}
		prev = direction
	}

	return signals
}
