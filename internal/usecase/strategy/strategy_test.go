package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

func barsFromCloses(symbol string, closes []float64) []marketdatav1.Bar {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]marketdatav1.Bar, len(closes))
	for i, c := range closes {
		bars[i] = marketdatav1.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Symbol:    symbol,
			Interval:  "1d",
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    100,
		}
	}
	return bars
}

func TestRollingMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	out := rollingMean(values, 3, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.Equal(t, 2.0, out[2])
	assert.Equal(t, 3.0, out[3])
	assert.Equal(t, 4.0, out[4])
}

func TestRollingMean_MinPeriods(t *testing.T) {
	values := []float64{2, 4, 6, 8}

	out := rollingMean(values, 3, 2)

	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 3.0, out[1])
	assert.Equal(t, 4.0, out[2])
	assert.Equal(t, 6.0, out[3])
}

func TestRollingStd(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	out := rollingStd(values, 3, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	// sample std of {1,2,3} and {2,3,4}
	assert.InDelta(t, 1.0, out[2], 1e-9)
	assert.InDelta(t, 1.0, out[3], 1e-9)
}

func TestLeastSquaresSlope(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{3, 5, 7, 9}

	assert.InDelta(t, 2.0, leastSquaresSlope(x, y), 1e-9)

	// no variance falls back to 1
	assert.Equal(t, 1.0, leastSquaresSlope([]float64{5, 5, 5}, y[:3]))
}

func TestTrendFollowing_Signals(t *testing.T) {
	// flat, then a rally that lifts the short average above the long one,
	// then a slump that drops it back below
	closes := make([]float64, 0, 40)
	for i := 0; i < 12; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 14; i++ {
		closes = append(closes, 100+float64(i+1)*2)
	}
	for i := 0; i < 14; i++ {
		closes = append(closes, 128-float64(i+1)*4)
	}

	gen := &TrendFollowing{ShortWindow: 3, LongWindow: 8, MaxPos: 50}
	signals := gen.Signals(barsFromCloses("AAPL", closes))

	require.NotEmpty(t, signals)
	assert.Equal(t, orderbookv1.SideBuy, signals[0].Side)
	assert.Equal(t, int64(50), signals[0].Quantity)
	assert.Equal(t, "AAPL", signals[0].Symbol)

	// the later downward cross flips the direction exactly once
	require.Len(t, signals, 2)
	assert.Equal(t, orderbookv1.SideSell, signals[1].Side)
	assert.True(t, signals[0].Timestamp.Before(signals[1].Timestamp))
}

func TestTrendFollowing_NoSignalsOnFlatSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}

	signals := NewTrendFollowing().Signals(barsFromCloses("AAPL", closes))

	assert.Empty(t, signals)
}

func TestTrendFollowing_NotEnoughHistory(t *testing.T) {
	signals := NewTrendFollowing().Signals(barsFromCloses("AAPL", []float64{100, 101, 102}))
	assert.Empty(t, signals)
}

func TestMeanReversion_Signals(t *testing.T) {
	// oscillate mildly to establish bands, then spike down through the
	// lower band and later up through the upper band
	closes := []float64{
		100, 101, 99, 100, 101, 99, 100, 101, 99, 100,
		101, 99, 100, 101, 99, 100, 101, 99, 100, 101,
		90, // crosses down through the lower band
		100, 100, 100, 100,
		112, // crosses up through the upper band
	}

	gen := &MeanReversion{Window: 20, NumStd: 2.0, MaxPos: 25}
	signals := gen.Signals(barsFromCloses("AAPL", closes))

	require.Len(t, signals, 2)
	assert.Equal(t, orderbookv1.SideBuy, signals[0].Side)
	assert.Equal(t, 90.0, signals[0].Price)
	assert.Equal(t, orderbookv1.SideSell, signals[1].Side)
	assert.Equal(t, 112.0, signals[1].Price)
	assert.Equal(t, int64(25), signals[0].Quantity)
}

func TestMeanReversion_NoCrossNoSignal(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}

	signals := NewMeanReversion().Signals(barsFromCloses("AAPL", closes))

	assert.Empty(t, signals)
}

func TestPairs_Signals(t *testing.T) {
	// two legs moving in lockstep until leg one dislocates upward
	closes1 := make([]float64, 0, 30)
	closes2 := make([]float64, 0, 30)
	for i := 0; i < 25; i++ {
		closes1 = append(closes1, 100+float64(i%3))
		closes2 = append(closes2, 50+float64(i%3))
	}
	closes1 = append(closes1, 140, 141, 142, 141, 140)
	closes2 = append(closes2, 50, 51, 52, 51, 50)

	gen := NewPairs()
	signals := gen.Signals(
		barsFromCloses("AAPL", closes1),
		barsFromCloses("AMZN", closes2),
	)

	require.NotEmpty(t, signals)
	// entries come in leg pairs with opposite sides
	require.Equal(t, 0, len(signals)%2)
	first, second := signals[0], signals[1]
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, "AMZN", second.Symbol)
	assert.Equal(t, orderbookv1.SideSell, first.Side)
	assert.Equal(t, orderbookv1.SideBuy, second.Side)
	assert.Equal(t, first.Timestamp, second.Timestamp)
	assert.Positive(t, second.Quantity)
}

func TestPairs_AlignmentDropsUnmatchedBars(t *testing.T) {
	leg1 := barsFromCloses("AAPL", []float64{100, 101, 102, 103})
	leg2 := barsFromCloses("AMZN", []float64{50, 51, 52, 53})
	// shift one leg so only half the timestamps intersect
	for i := range leg2 {
		leg2[i].Timestamp = leg2[i].Timestamp.AddDate(0, 0, 2)
	}

	aligned1, aligned2 := alignByTimestamp(leg1, leg2)

	require.Len(t, aligned1, 2)
	require.Len(t, aligned2, 2)
	assert.Equal(t, aligned1[0].Timestamp, aligned2[0].Timestamp)
	assert.Equal(t, 102.0, aligned1[0].Close)
	assert.Equal(t, 50.0, aligned2[0].Close)
}

func TestPairs_EmptyWithoutOverlap(t *testing.T) {
	leg1 := barsFromCloses("AAPL", []float64{100, 101})
	leg2 := barsFromCloses("AMZN", []float64{50, 51})
	for i := range leg2 {
		leg2[i].Timestamp = leg2[i].Timestamp.AddDate(1, 0, 0)
	}

	signals := NewPairs().Signals(leg1, leg2)

	assert.Empty(t, signals)
}
