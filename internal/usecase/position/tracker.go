package position

import (
	"sync"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
	positionv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/position/v1"
)

// Tracker accumulates positions, cash and a fill blotter from execution
// reports. Buys debit cash, sells credit it.
type Tracker struct {
	mu           sync.Mutex
	positions    map[string]int64
	cash         float64
	startingCash float64
	blotter      []positionv1.Fill
}

var _ positionv1.Tracker = (*Tracker)(nil)

// NewTracker creates a tracker with the given starting cash.
func NewTracker(startingCash float64) *Tracker {
	return &Tracker{
		positions:    make(map[string]int64),
		cash:         startingCash,
		startingCash: startingCash,
	}
}

// Update processes one execution report.
func (t *Tracker) Update(report orderbookv1.ExecutionReport) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delta := report.FilledQty
	cashFlow := -float64(report.FilledQty) * report.Price
	if report.Side == orderbookv1.SideSell {
		delta = -delta
		cashFlow = -cashFlow
	}

	t.positions[report.Symbol] += delta
	t.cash += cashFlow

	t.blotter = append(t.blotter, positionv1.Fill{
		Timestamp: report.Timestamp,
		Symbol:    report.Symbol,
		Side:      report.Side,
		Quantity:  report.FilledQty,
		Price:     report.Price,
		CashFlow:  cashFlow,
	})
}

// Position returns the net position for one symbol.
func (t *Tracker) Position(symbol string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positions[symbol]
}

// Positions returns a copy of all net positions.
func (t *Tracker) Positions() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copyPositions()
}

// Cash returns the current cash balance.
func (t *Tracker) Cash() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cash
}

// Blotter returns a copy of all recorded fills in arrival order.
func (t *Tracker) Blotter() []positionv1.Fill {
	t.mu.Lock()
	defer t.mu.Unlock()

	blotter := make([]positionv1.Fill, len(t.blotter))
	copy(blotter, t.blotter)
	return blotter
}

// Summary computes a P&L snapshot. Unrealized P&L marks each open position
// against currentPrices; symbols missing from the map mark at zero. With a
// nil map unrealized P&L is zero.
func (t *Tracker) Summary(currentPrices map[string]float64) positionv1.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var realized float64
	for _, fill := range t.blotter {
		realized += fill.CashFlow
	}

	var unrealized float64
	if currentPrices != nil {
		for symbol, pos := range t.positions {
			if pos == 0 {
				continue
			}

			marketValue := float64(pos) * currentPrices[symbol]

			var costBasis float64
			for _, fill := range t.blotter {
				if fill.Symbol == symbol {
					costBasis -= fill.CashFlow
				}
			}

			unrealized += marketValue - costBasis
		}
	}

	return positionv1.Summary{
		RealizedPnL:   realized,
		UnrealizedPnL: unrealized,
		TotalPnL:      realized + unrealized,
		Cash:          t.cash,
		Positions:     t.copyPositions(),
	}
}

func (t *Tracker) copyPositions() map[string]int64 {
	positions := make(map[string]int64, len(t.positions))
	for symbol, qty := range t.positions {
		positions[symbol] = qty
	}
	return positions
}
