package orderbookv1

// Book defines the interface for a single-instrument limit order book with
// price-time priority matching.
//
// Submit runs to completion before returning: all matching and all report
// emission happen synchronously, so callers with multiple order sources must
// serialize access per instrument themselves.
type Book interface {
	Symbol() string
	Submit(order *Order) []ExecutionReport
	Cancel(orderID string) error
	Amend(orderID string, quantity int64, price float64) error

	Bids() []Order
	Asks() []Order
	BestBid() (Order, bool)
	BestAsk() (Order, bool)
	BidTotalVolume() int64
	AskTotalVolume() int64
}
