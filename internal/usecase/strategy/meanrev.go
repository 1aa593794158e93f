package strategy

import (
	"math"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
)

// MeanReversion trades Bollinger band crossings: buy when the close crosses
// down through the lower band, sell when it crosses up through the upper
// band. A cross requires valid bands on both the current and previous bar.
type MeanReversion struct {
	Window int
	NumStd float64
	MaxPos int64
}

// NewMeanReversion creates a mean-reversion generator with a 20-bar window
// and 2-sigma bands.
func NewMeanReversion() *MeanReversion {
	return &MeanReversion{
		Window: 20,
		NumStd: 2.0,
		MaxPos: defaultMaxPos,
	}
}

// Name returns the strategy name.
func (s *MeanReversion) Name() string {
	return "mean_reversion"
}

// Signals scans the bars, oldest first, and returns the band-crossing trades.
func (s *MeanReversion) Signals(bars []marketdatav1.Bar) []Signal {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	mid := rollingMean(closes, s.Window, s.Window)
	std := rollingStd(closes, s.Window, s.Window)

	upper := make([]float64, len(bars))
	lower := make([]float64, len(bars))
	for i := range bars {
		upper[i] = mid[i] + s.NumStd*std[i]
		lower[i] = mid[i] - s.NumStd*std[i]
	}

	var signals []Signal
	for i := 1; i < len(bars); i++ {
		if math.IsNaN(upper[i]) || math.IsNaN(upper[i-1]) {
			continue
		}

		direction := 0
		switch {
		case closes[i] <= lower[i] && closes[i-1] > lower[i-1]:
			direction = 1
		case closes[i] >= upper[i] && closes[i-1] < upper[i-1]:
			direction = -1
		}

		if direction != 0 {
			signals = append(signals, Signal{
				Timestamp: bars[i].Timestamp,
				Symbol:    bars[i].Symbol,
				Side:      sideFor(direction),
				Quantity:  s.MaxPos,
				Price:     closes[i],
			})
		}
	}

	return signals
}
