package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/strategy"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

func barsFromCloses(base time.Time, symbol string, closes []float64) []marketdatav1.Bar {
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

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return NewRunner(100000, nil, log)
}

func signalAt(day int, symbol string, side orderbookv1.Side, qty int64, price float64) strategy.Signal {
	return strategy.Signal{
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Symbol:    symbol,
		Side:      side,
		Quantity:  qty,
		Price:     price,
	}
}

func TestRunner_Run_RoundTrip(t *testing.T) {
	runner := newTestRunner(t)

	signals := []strategy.Signal{
		signalAt(0, "AAPL", orderbookv1.SideBuy, 100, 100.0),
		signalAt(1, "AAPL", orderbookv1.SideSell, 100, 110.0),
	}

	result, err := runner.Run(context.Background(), "trend_following", signals, map[string]float64{"AAPL": 110.0})
	require.NoError(t, err)

	assert.Equal(t, "trend_following", result.Strategy)
	assert.Equal(t, 2, result.Trades)
	// bought 100@100, sold 100@110
	assert.Equal(t, 101000.0, result.FinalCash)
	assert.InDelta(t, 0.01, result.TotalReturn, 1e-9)
	assert.Equal(t, int64(0), result.Summary.Positions["AAPL"])
	// the buy dips cumulative cash to 90000 before the sell recovers it
	assert.InDelta(t, -0.1, result.MaxDrawdown, 1e-9)
}

func TestRunner_Run_EverySignalFillsAtItsPrice(t *testing.T) {
	runner := newTestRunner(t)

	signals := []strategy.Signal{
		signalAt(0, "AAPL", orderbookv1.SideBuy, 10, 100.0),
		signalAt(1, "AAPL", orderbookv1.SideBuy, 20, 103.0),
		signalAt(2, "AAPL", orderbookv1.SideSell, 15, 101.0),
	}

	result, err := runner.Run(context.Background(), "mean_reversion", signals, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Trades)

	blotter := runner.Tracker().Blotter()
	require.Len(t, blotter, 3)
	assert.Equal(t, 100.0, blotter[0].Price)
	assert.Equal(t, 103.0, blotter[1].Price)
	assert.Equal(t, 101.0, blotter[2].Price)
	assert.Equal(t, int64(15), runner.Tracker().Position("AAPL"))
}

func TestRunner_Run_MultiSymbolLegsAreIndependent(t *testing.T) {
	runner := newTestRunner(t)

	signals := []strategy.Signal{
		signalAt(0, "AAPL", orderbookv1.SideSell, 100, 150.0),
		signalAt(0, "AMZN", orderbookv1.SideBuy, 80, 120.0),
	}

	result, err := runner.Run(context.Background(), "pairs", signals, map[string]float64{
		"AAPL": 150.0,
		"AMZN": 120.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Trades)
	assert.Equal(t, int64(-100), result.Summary.Positions["AAPL"])
	assert.Equal(t, int64(80), result.Summary.Positions["AMZN"])
}

func TestRunner_Run_NoSignals(t *testing.T) {
	runner := newTestRunner(t)

	result, err := runner.Run(context.Background(), "trend_following", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Trades)
	assert.Equal(t, 0.0, result.TotalReturn)
	assert.Equal(t, 100000.0, result.FinalCash)
}

func TestRunner_Run_EndToEndWithGeneratedSignals(t *testing.T) {
	// rally then slump gives one buy and one sell crossover
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

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := &strategy.TrendFollowing{ShortWindow: 3, LongWindow: 8, MaxPos: 50}
	signals := gen.Signals(barsFromCloses(base, "AAPL", closes))
	require.NotEmpty(t, signals)

	runner := newTestRunner(t)
	result, err := runner.Run(context.Background(), gen.Name(), signals, map[string]float64{"AAPL": closes[len(closes)-1]})
	require.NoError(t, err)

	assert.Equal(t, len(signals), result.Trades)
	assert.NotZero(t, result.FinalCash)
}
