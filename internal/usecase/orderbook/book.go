package orderbook

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

var (
	// ErrOrderNotFound is returned when a cancel or amend targets an order
	// that is not resting on the book.
	ErrOrderNotFound = errors.New("order not found in book")
	// ErrPriceOnMarketAmend is returned when a price amend targets an order
	// type that carries no price.
	ErrPriceOnMarketAmend = errors.New("only limit or stop orders can change price")
)

// Book is a single-instrument limit order book. Bids are kept in strictly
// descending price order, asks in strictly ascending price order; within one
// price level orders are in arrival order (timestamp, then arrival sequence
// for identical timestamps).
//
// The book trusts its callers: side, type, price and quantity are assumed to
// be validated upstream, and a violated precondition is a programming error
// rather than a recoverable condition.
type Book struct {
	mu     sync.Mutex
	symbol string
	clock  orderbookv1.Clock

	bids []*orderbookv1.Order
	asks []*orderbookv1.Order

	// resting orders by id, for cancel and amend
	orders map[string]*orderbookv1.Order

	seq int64
}

// Ensure Book implements the domain interface.
var _ orderbookv1.Book = (*Book)(nil)

// NewBook creates an empty book for one instrument.
func NewBook(symbol string, clock orderbookv1.Clock) *Book {
	if clock == nil {
		clock = orderbookv1.NewRealClock()
	}
	return &Book{
		symbol: symbol,
		clock:  clock,
		orders: make(map[string]*orderbookv1.Order),
	}
}

// Symbol returns the instrument this book trades.
func (b *Book) Symbol() string {
	return b.symbol
}

// Submit handles a new incoming order and returns the execution reports it
// produced, in emission order (aggressor leg before resting leg per match).
//
// Market orders consume resting liquidity until filled or the opposite side
// is exhausted; any remainder is discarded. Limit orders match first, then
// any remainder joins the book. Stop orders reach the book already
// triggered and are treated as limit orders.
func (b *Book) Submit(order *orderbookv1.Order) []orderbookv1.ExecutionReport {
	mustValid(order)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Assign the time-priority timestamp at first entry; it stays fixed
	// for the lifetime of the order.
	if order.Timestamp.IsZero() {
		order.Timestamp = b.clock.Now()
	}
	b.seq++
	order.Sequence = b.seq

	var reports []orderbookv1.ExecutionReport

	if order.Type == orderbookv1.OrderTypeMarket {
		reports = b.match(order, false)
	} else {
		reports = b.match(order, true)
		if order.Quantity > 0 {
			b.insertResting(order)
		}
	}

	return reports
}

// match fills the incoming order against the opposite side, best price first.
// withPriceGate distinguishes the limit path from the market path: it is the
// only difference between the two.
func (b *Book) match(order *orderbookv1.Order, withPriceGate bool) []orderbookv1.ExecutionReport {
	var reports []orderbookv1.ExecutionReport

	opposite := &b.asks
	if order.IsSell() {
		opposite = &b.bids
	}

	for order.Quantity > 0 && len(*opposite) > 0 {
		best := (*opposite)[0]

		if withPriceGate {
			// buy matches while best ask <= order price,
			// sell matches while best bid >= order price
			if order.IsBuy() && best.Price > order.Price {
				break
			}
			if order.IsSell() && best.Price < order.Price {
				break
			}
		}

		fillQty := min(order.Quantity, best.Quantity)
		tradePrice := best.Price
		ts := b.clock.Now()

		// aggressor report first, then the resting counterparty; both
		// built before quantities are decremented so the fill status
		// reflects this fill
		reports = append(reports,
			orderbookv1.NewExecutionReport(order, fillQty, tradePrice, ts),
			orderbookv1.NewExecutionReport(best, fillQty, tradePrice, ts),
		)

		order.Quantity -= fillQty
		best.Quantity -= fillQty

		if best.Quantity == 0 {
			*opposite = (*opposite)[1:]
			delete(b.orders, best.ID)
		}
	}

	return reports
}

// insertResting places a limit/stop remainder into its side, preserving the
// side's total order. New arrivals at an already-represented price join the
// back of that price level's queue; existing resting orders are never
// reordered relative to each other.
func (b *Book) insertResting(order *orderbookv1.Order) {
	side := &b.bids
	if order.IsSell() {
		side = &b.asks
	}

	idx := sort.Search(len(*side), func(i int) bool {
		return comesBefore(order, (*side)[i])
	})

	*side = append(*side, nil)
	copy((*side)[idx+1:], (*side)[idx:])
	(*side)[idx] = order

	b.orders[order.ID] = order
}

// comesBefore reports whether x has strictly higher priority than y on the
// side both belong to: better price first, then earlier timestamp, then
// lower arrival sequence.
func comesBefore(x, y *orderbookv1.Order) bool {
	if x.Price != y.Price {
		if x.IsBuy() {
			return x.Price > y.Price
		}
		return x.Price < y.Price
	}
	if !x.Timestamp.Equal(y.Timestamp) {
		return x.Timestamp.Before(y.Timestamp)
	}
	return x.Sequence < y.Sequence
}

// Cancel removes a resting order from the book.
func (b *Book) Cancel(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, exists := b.orders[orderID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	b.removeFromSide(order)
	delete(b.orders, orderID)

	return nil
}

// Amend changes the quantity and/or price of a resting order. A zero
// quantity or price leaves that field unchanged. A quantity change keeps the
// order's queue position; a price change moves the order to its new price
// level, keeping the original timestamp.
//
// Fill bookkeeping lives with the order manager, which only forwards amends
// for orders that have not yet traded.
func (b *Book) Amend(orderID string, quantity int64, price float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, exists := b.orders[orderID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	if quantity > 0 {
		order.Quantity = quantity
	}

	if price > 0 && price != order.Price {
		if !order.RequiresPrice() {
			return ErrPriceOnMarketAmend
		}
		b.removeFromSide(order)
		order.Price = price
		b.insertResting(order)
	}

	return nil
}

// removeFromSide unlinks a resting order from its side slice.
func (b *Book) removeFromSide(order *orderbookv1.Order) {
	side := &b.bids
	if order.IsSell() {
		side = &b.asks
	}

	for i, o := range *side {
		if o == order {
			*side = append((*side)[:i], (*side)[i+1:]...)
			return
		}
	}
}

// Bids returns a copy of the resting bids, highest price first.
func (b *Book) Bids() []orderbookv1.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyOrders(b.bids)
}

// Asks returns a copy of the resting asks, lowest price first.
func (b *Book) Asks() []orderbookv1.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyOrders(b.asks)
}

// BestBid returns a copy of the highest-priority resting bid.
func (b *Book) BestBid() (orderbookv1.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.bids) == 0 {
		return orderbookv1.Order{}, false
	}
	return *b.bids[0], true
}

// BestAsk returns a copy of the highest-priority resting ask.
func (b *Book) BestAsk() (orderbookv1.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.asks) == 0 {
		return orderbookv1.Order{}, false
	}
	return *b.asks[0], true
}

// BidTotalVolume returns the total resting bid quantity.
func (b *Book) BidTotalVolume() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return totalVolume(b.bids)
}

// AskTotalVolume returns the total resting ask quantity.
func (b *Book) AskTotalVolume() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return totalVolume(b.asks)
}

func copyOrders(side []*orderbookv1.Order) []orderbookv1.Order {
	orders := make([]orderbookv1.Order, len(side))
	for i, o := range side {
		orders[i] = *o
	}
	return orders
}

func totalVolume(side []*orderbookv1.Order) int64 {
	var total int64
	for _, o := range side {
		total += o.Quantity
	}
	return total
}

// mustValid enforces the book's contract with the validation boundary.
// Orders that violate it are defects upstream, not recoverable errors here.
func mustValid(order *orderbookv1.Order) {
	if order == nil {
		panic("orderbook: nil order")
	}
	if order.Quantity <= 0 {
		panic(fmt.Sprintf("orderbook: order %s has non-positive quantity %d", order.ID, order.Quantity))
	}
	if order.RequiresPrice() && order.Price <= 0 {
		panic(fmt.Sprintf("orderbook: %s order %s has no price", order.Type, order.ID))
	}
}
