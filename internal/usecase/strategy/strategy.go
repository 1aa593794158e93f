package strategy

import (
	"time"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// Signal is one trade instruction emitted by a generator: trade Quantity of
// Symbol at Price, as a limit order, at the bar that triggered it.
type Signal struct {
	Timestamp time.Time        `json:"timestamp"`
	Symbol    string           `json:"symbol"`
	Side      orderbookv1.Side `json:"side"`
	Quantity  int64            `json:"quantity"`
	Price     float64          `json:"price"`
}

const defaultMaxPos = 100

func sideFor(direction int) orderbookv1.Side {
	if direction > 0 {
		return orderbookv1.SideBuy
	}
	return orderbookv1.SideSell
}
