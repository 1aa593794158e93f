package fill

import (
	"time"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// Fill is the persisted form of one execution report leg.
type Fill struct {
	Timestamp time.Time `json:"timestamp"`
	OrderID   string    `json:"orderId"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
}

// FromReport populates the fill from an execution report.
func (f *Fill) FromReport(report orderbookv1.ExecutionReport) {
	f.Timestamp = report.Timestamp
	f.OrderID = report.OrderID
	f.Symbol = report.Symbol
	f.Side = string(report.Side)
	f.Quantity = report.FilledQty
	f.Price = report.Price
	f.Status = string(report.Status)
}

// Filter represents the filter criteria for fills.
type Filter struct {
	Symbol  string
	OrderID string
	From    *time.Time
	To      *time.Time
	Limit   int32
}
