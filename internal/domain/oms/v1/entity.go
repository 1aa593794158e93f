package omsv1

import (
	"time"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// Status represents the lifecycle status of a managed order.
type Status string

const (
	// StatusAccepted is the status of an order that passed validation and
	// has been handed to the book.
	StatusAccepted Status = "accepted"

	// StatusPartiallyFilled is the status of an order that has traded but
	// still has remaining quantity.
	StatusPartiallyFilled Status = "partially_filled"

	// StatusFilled is the status of a fully executed order.
	StatusFilled Status = "filled"

	// StatusCanceled is the status of an order removed before full execution.
	StatusCanceled Status = "canceled"

	// StatusRejected is the status of an order that failed validation.
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusRejected
}

// NewOrderRequest carries the fields a caller supplies to place an order.
// ID is optional; when empty the order manager assigns one.
type NewOrderRequest struct {
	ID       string                `json:"id,omitempty"`
	Symbol   string                `json:"symbol"`
	Side     orderbookv1.Side      `json:"side"`
	Type     orderbookv1.OrderType `json:"type"`
	Quantity int64                 `json:"quantity"`
	Price    float64               `json:"price,omitempty"`
}

// ManagedOrder is the order manager's record of one order. Quantity is the
// original requested quantity; FilledQty accumulates executions.
type ManagedOrder struct {
	ID        string                `json:"id"`
	Symbol    string                `json:"symbol"`
	Side      orderbookv1.Side      `json:"side"`
	Type      orderbookv1.OrderType `json:"type"`
	Quantity  int64                 `json:"quantity"`
	FilledQty int64                 `json:"filledQty"`
	Price     float64               `json:"price,omitempty"`
	Status    Status                `json:"status"`
	Timestamp time.Time             `json:"timestamp"`
}

// Remaining returns the unexecuted quantity.
func (o *ManagedOrder) Remaining() int64 {
	return o.Quantity - o.FilledQty
}
