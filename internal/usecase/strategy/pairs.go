package strategy

import (
	"math"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
)

// Pairs trades the spread between two correlated symbols. The hedge ratio is
// the least-squares slope of the first leg's prices on the second's; the
// spread p1 - beta*p2 is normalized to a rolling z-score and an entry fires
// when the z-score first leaves the threshold band: short the spread (sell
// leg one, buy leg two) above it, long the spread below it. The two legs are
// independent orders; nothing ties their fills together.
type Pairs struct {
	Threshold  float64
	Window     int
	MinPeriods int
	MaxPos     int64
}

// NewPairs creates a pairs generator with a 20-bar window and a 2-sigma
// entry threshold.
func NewPairs() *Pairs {
	return &Pairs{
		Threshold:  2.0,
		Window:     20,
		MinPeriods: 10,
		MaxPos:     defaultMaxPos,
	}
}

// Name returns the strategy name.
func (s *Pairs) Name() string {
	return "pairs"
}

// Signals aligns the two bar series by timestamp and returns entry trades
// for both legs. Bars present in only one series are dropped.
func (s *Pairs) Signals(leg1, leg2 []marketdatav1.Bar) []Signal {
	aligned1, aligned2 := alignByTimestamp(leg1, leg2)
	if len(aligned1) == 0 {
		return nil
	}

	p1 := make([]float64, len(aligned1))
	p2 := make([]float64, len(aligned2))
	for i := range aligned1 {
		p1[i] = aligned1[i].Close
		p2[i] = aligned2[i].Close
	}

	beta := 1.0
	if len(p1) > 10 {
		beta = leastSquaresSlope(p2, p1)
	}

	spread := make([]float64, len(p1))
	for i := range p1 {
		spread[i] = p1[i] - beta*p2[i]
	}

	mean := rollingMean(spread, s.Window, s.MinPeriods)
	std := rollingStd(spread, s.Window, s.MinPeriods)

	var signals []Signal
	prev := 0
	for i := range spread {
		direction := 0
		if !math.IsNaN(mean[i]) && !math.IsNaN(std[i]) && std[i] > 0 {
			z := (spread[i] - mean[i]) / std[i]
			switch {
			case z > s.Threshold:
				direction = -1
			case z < -s.Threshold:
				direction = 1
			}
		}

		if direction != 0 && direction != prev {
			hedgeQty := int64(beta * float64(s.MaxPos))
			if hedgeQty < 1 {
				hedgeQty = 1
			}
			signals = append(signals,
				Signal{
					Timestamp: aligned1[i].Timestamp,
					Symbol:    aligned1[i].Symbol,
					Side:      sideFor(direction),
					Quantity:  s.MaxPos,
					Price:     p1[i],
				},
				Signal{
					Timestamp: aligned2[i].Timestamp,
					Symbol:    aligned2[i].Symbol,
					Side:      sideFor(-direction),
					Quantity:  hedgeQty,
					Price:     p2[i],
				},
			)
		}
		prev = direction
	}

	return signals
}

// alignByTimestamp intersects two bar series on their timestamps. Both
// inputs are assumed oldest first.
func alignByTimestamp(leg1, leg2 []marketdatav1.Bar) ([]marketdatav1.Bar, []marketdatav1.Bar) {
	var out1, out2 []marketdatav1.Bar

	i, j := 0, 0
	for i < len(leg1) && j < len(leg2) {
		t1, t2 := leg1[i].Timestamp, leg2[j].Timestamp
		switch {
		case t1.Equal(t2):
			out1 = append(out1, leg1[i])
			out2 = append(out2, leg2[j])
			i++
			j++
		case t1.Before(t2):
			i++
		default:
			j++
		}
	}

	return out1, out2
}
