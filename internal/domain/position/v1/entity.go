package positionv1

import (
	"time"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// Fill is one blotter entry. CashFlow is negative for buys and positive for
// sells.
type Fill struct {
	Timestamp time.Time        `json:"timestamp"`
	Symbol    string           `json:"symbol"`
	Side      orderbookv1.Side `json:"side"`
	Quantity  int64            `json:"quantity"`
	Price     float64          `json:"price"`
	CashFlow  float64          `json:"cashFlow"`
}

// Summary is a point-in-time P&L snapshot. Realized P&L is the cash delta
// from all fills; unrealized marks open positions against supplied prices.
type Summary struct {
	RealizedPnL   float64          `json:"realizedPnl"`
	UnrealizedPnL float64          `json:"unrealizedPnl"`
	TotalPnL      float64          `json:"totalPnl"`
	Cash          float64          `json:"cash"`
	Positions     map[string]int64 `json:"positions"`
}
