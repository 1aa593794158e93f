package orderbookv1

import (
	"time"
)

// ReportStatus represents the fill status carried by an execution report.
type ReportStatus string

const (
	// StatusFilled means the order's remaining quantity reached zero with this fill.
	StatusFilled ReportStatus = "filled"
	// StatusPartialFill means the order still has remaining quantity after this fill.
	StatusPartialFill ReportStatus = "partial_fill"
)

// ExecutionReport is an immutable record of one fill event. The book emits
// them in pairs per match, aggressor first then resting counterparty, both
// sharing the timestamp captured at match time. The trade price is always
// the resting order's price.
type ExecutionReport struct {
	OrderID   string       `json:"orderID"`
	Symbol    string       `json:"symbol"`
	Side      Side         `json:"side"`
	FilledQty int64        `json:"filledQty"`
	Price     float64      `json:"price"`
	Timestamp time.Time    `json:"timestamp"`
	Status    ReportStatus `json:"status"`
}

// NewExecutionReport builds the report for one leg of a match. It must be
// called before the fill is applied, while order.Quantity still holds the
// pre-fill remaining quantity.
func NewExecutionReport(order *Order, fillQty int64, price float64, ts time.Time) ExecutionReport {
	status := StatusPartialFill
	if fillQty == order.Quantity {
		status = StatusFilled
	}

	return ExecutionReport{
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      order.Side,
		FilledQty: fillQty,
		Price:     price,
		Timestamp: ts,
		Status:    status,
	}
}
