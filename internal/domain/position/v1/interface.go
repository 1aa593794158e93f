package positionv1

import (
	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// Tracker consumes execution reports in emission order and keeps positions,
// cash and the fill blotter. It never touches the book.
type Tracker interface {
	Update(report orderbookv1.ExecutionReport)
	Position(symbol string) int64
	Positions() map[string]int64
	Cash() float64
	Blotter() []Fill
	Summary(currentPrices map[string]float64) Summary
}
