package orderbookv1

import (
	"time"
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy order.
	SideBuy Side = "buy"
	// SideSell represents a sell order.
	SideSell Side = "sell"
)

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeStop represents a stop order. Triggering is an external
	// responsibility; once it reaches the book it behaves like a limit order.
	OrderTypeStop OrderType = "stop"
)

// Order represents a single trade instruction. Quantity is the remaining
// quantity and is decremented by the book as fills occur; it never goes
// negative. Timestamp is assigned at first entry into the book and is
// immutable afterwards, it is the tie-breaker among orders at equal price.
// Sequence is the book-assigned arrival index used as a stable tie-break
// when two orders share an identical timestamp.
type Order struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Type      OrderType `json:"type"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Sequence  int64     `json:"sequence"`
}

// NewOrder creates a new order with the given parameters. Price is ignored
// for market orders.
func NewOrder(id, symbol string, side Side, orderType OrderType, quantity int64, price float64) *Order {
	return &Order{
		ID:       id,
		Symbol:   symbol,
		Side:     side,
		Type:     orderType,
		Quantity: quantity,
		Price:    price,
	}
}

// IsBuy checks if the order is a buy order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsSell checks if the order is a sell order.
func (o *Order) IsSell() bool {
	return o.Side == SideSell
}

// IsFilled checks if the order is filled (remaining quantity is zero).
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// RequiresPrice reports whether this order type carries a limit price.
func (t OrderType) RequiresPrice() bool {
	return t == OrderTypeLimit || t == OrderTypeStop
}

// RequiresPrice reports whether this order's type carries a limit price.
func (o *Order) RequiresPrice() bool {
	return o.Type.RequiresPrice()
}
