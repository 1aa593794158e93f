package orderbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// fakeClock hands out strictly increasing timestamps so time priority is
// deterministic in tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func newTestBook() *Book {
	return NewBook("AAPL", newFakeClock())
}

func limitOrder(id string, side orderbookv1.Side, qty int64, price float64) *orderbookv1.Order {
	return orderbookv1.NewOrder(id, "AAPL", side, orderbookv1.OrderTypeLimit, qty, price)
}

func marketOrder(id string, side orderbookv1.Side, qty int64) *orderbookv1.Order {
	return orderbookv1.NewOrder(id, "AAPL", side, orderbookv1.OrderTypeMarket, qty, 0)
}

func TestBook_Submit_EmptyBookRests(t *testing.T) {
	book := newTestBook()

	reports := book.Submit(limitOrder("1", orderbookv1.SideBuy, 10, 150.0))

	assert.Empty(t, reports)

	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, int64(10), bids[0].Quantity)
	assert.Equal(t, 150.0, bids[0].Price)
	assert.False(t, bids[0].Timestamp.IsZero())
	assert.Empty(t, book.Asks())
}

func TestBook_Submit_CrossingLimitFills(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("1", orderbookv1.SideBuy, 10, 150.0))

	reports := book.Submit(limitOrder("2", orderbookv1.SideSell, 5, 149.0))

	require.Len(t, reports, 2)

	// aggressor first, resting counterparty second, both at the resting price
	aggressor, resting := reports[0], reports[1]
	assert.Equal(t, "2", aggressor.OrderID)
	assert.Equal(t, int64(5), aggressor.FilledQty)
	assert.Equal(t, 150.0, aggressor.Price)
	assert.Equal(t, orderbookv1.StatusFilled, aggressor.Status)

	assert.Equal(t, "1", resting.OrderID)
	assert.Equal(t, int64(5), resting.FilledQty)
	assert.Equal(t, 150.0, resting.Price)
	assert.Equal(t, orderbookv1.StatusPartialFill, resting.Status)

	// paired reports share one timestamp captured at match time
	assert.Equal(t, aggressor.Timestamp, resting.Timestamp)

	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, int64(5), bids[0].Quantity)
	assert.Empty(t, book.Asks())
}

func TestBook_Submit_MarketConsumesRemainder(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("1", orderbookv1.SideBuy, 10, 150.0))
	book.Submit(limitOrder("2", orderbookv1.SideSell, 5, 149.0))

	reports := book.Submit(marketOrder("3", orderbookv1.SideSell, 5))

	require.Len(t, reports, 2)
	for _, report := range reports {
		assert.Equal(t, orderbookv1.StatusFilled, report.Status)
		assert.Equal(t, 150.0, report.Price)
	}

	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestBook_Submit_TimePriorityAtEqualPrice(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("B1", orderbookv1.SideBuy, 20, 100.0))
	book.Submit(limitOrder("B2", orderbookv1.SideBuy, 30, 100.0))
	book.Submit(limitOrder("B3", orderbookv1.SideBuy, 15, 100.0))

	bids := book.Bids()
	require.Len(t, bids, 3)
	assert.Equal(t, []int64{20, 30, 15}, []int64{bids[0].Quantity, bids[1].Quantity, bids[2].Quantity})

	reports := book.Submit(limitOrder("S1", orderbookv1.SideSell, 35, 100.0))

	// two matches, two reports each
	require.Len(t, reports, 4)

	// first match fully consumes the earliest bid
	assert.Equal(t, "S1", reports[0].OrderID)
	assert.Equal(t, int64(20), reports[0].FilledQty)
	assert.Equal(t, orderbookv1.StatusPartialFill, reports[0].Status)
	assert.Equal(t, "B1", reports[1].OrderID)
	assert.Equal(t, int64(20), reports[1].FilledQty)
	assert.Equal(t, orderbookv1.StatusFilled, reports[1].Status)

	// second match partially fills the next-in-line bid
	assert.Equal(t, "S1", reports[2].OrderID)
	assert.Equal(t, int64(15), reports[2].FilledQty)
	assert.Equal(t, orderbookv1.StatusFilled, reports[2].Status)
	assert.Equal(t, "B2", reports[3].OrderID)
	assert.Equal(t, int64(15), reports[3].FilledQty)
	assert.Equal(t, orderbookv1.StatusPartialFill, reports[3].Status)

	// B2's remainder keeps its queue position ahead of B3
	bids = book.Bids()
	require.Len(t, bids, 2)
	assert.Equal(t, "B2", bids[0].ID)
	assert.Equal(t, int64(15), bids[0].Quantity)
	assert.Equal(t, "B3", bids[1].ID)
	assert.Equal(t, int64(15), bids[1].Quantity)
}

func TestBook_Submit_MarketWalksTheDepth(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 100, 200.0))
	book.Submit(limitOrder("A2", orderbookv1.SideSell, 200, 200.5))
	book.Submit(limitOrder("A3", orderbookv1.SideSell, 150, 201.0))
	book.Submit(limitOrder("A4", orderbookv1.SideSell, 300, 201.5))

	reports := book.Submit(marketOrder("M1", orderbookv1.SideBuy, 500))

	require.Len(t, reports, 8)

	aggressor := make([]orderbookv1.ExecutionReport, 0, 4)
	resting := make([]orderbookv1.ExecutionReport, 0, 4)
	for i, report := range reports {
		if i%2 == 0 {
			aggressor = append(aggressor, report)
		} else {
			resting = append(resting, report)
		}
	}

	// best price first, full depth walked
	assert.Equal(t, []float64{200.0, 200.5, 201.0, 201.5},
		[]float64{aggressor[0].Price, aggressor[1].Price, aggressor[2].Price, aggressor[3].Price})
	assert.Equal(t, []int64{100, 200, 150, 50},
		[]int64{aggressor[0].FilledQty, aggressor[1].FilledQty, aggressor[2].FilledQty, aggressor[3].FilledQty})

	// the incoming order finishes fully filled on the last match
	assert.Equal(t, orderbookv1.StatusPartialFill, aggressor[0].Status)
	assert.Equal(t, orderbookv1.StatusFilled, aggressor[3].Status)

	// first three levels fully consumed, fourth partially
	assert.Equal(t, orderbookv1.StatusFilled, resting[0].Status)
	assert.Equal(t, orderbookv1.StatusFilled, resting[1].Status)
	assert.Equal(t, orderbookv1.StatusFilled, resting[2].Status)
	assert.Equal(t, orderbookv1.StatusPartialFill, resting[3].Status)

	asks := book.Asks()
	require.Len(t, asks, 1)
	assert.Equal(t, "A4", asks[0].ID)
	assert.Equal(t, int64(250), asks[0].Quantity)
	assert.Equal(t, 201.5, asks[0].Price)
}

func TestBook_Submit_MarketAgainstEmptyBookDiscards(t *testing.T) {
	book := newTestBook()

	reports := book.Submit(marketOrder("M1", orderbookv1.SideBuy, 100))

	assert.Empty(t, reports)
	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestBook_Submit_MarketRemainderDiscarded(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 30, 101.0))

	reports := book.Submit(marketOrder("M1", orderbookv1.SideBuy, 100))

	require.Len(t, reports, 2)
	// remainder never rests; the aggressor's last report stays partial
	assert.Equal(t, orderbookv1.StatusPartialFill, reports[0].Status)
	assert.Equal(t, orderbookv1.StatusFilled, reports[1].Status)
	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestBook_Submit_PriceGateStopsMatching(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 10, 105.0))
	book.Submit(limitOrder("A2", orderbookv1.SideSell, 10, 106.0))

	// crosses the first level only
	reports := book.Submit(limitOrder("B1", orderbookv1.SideBuy, 25, 105.0))

	require.Len(t, reports, 2)
	assert.Equal(t, int64(10), reports[0].FilledQty)
	assert.Equal(t, 105.0, reports[0].Price)

	// remainder rests on the bids, untouched ask stays put
	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, int64(15), bids[0].Quantity)

	asks := book.Asks()
	require.Len(t, asks, 1)
	assert.Equal(t, "A2", asks[0].ID)
	assert.Equal(t, int64(10), asks[0].Quantity)
}

func TestBook_Submit_NonCrossingLimitLeavesOppositeUntouched(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 10, 105.0))
	before := book.Asks()

	reports := book.Submit(limitOrder("B1", orderbookv1.SideBuy, 5, 104.0))

	assert.Empty(t, reports)
	assert.Equal(t, before, book.Asks())

	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, int64(5), bids[0].Quantity)
	assert.Equal(t, 104.0, bids[0].Price)
	assert.False(t, bids[0].Timestamp.IsZero())
}

func TestBook_Submit_StopBehavesLikeLimit(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 10, 105.0))

	stop := orderbookv1.NewOrder("S1", "AAPL", orderbookv1.SideBuy, orderbookv1.OrderTypeStop, 15, 105.0)
	reports := book.Submit(stop)

	require.Len(t, reports, 2)
	assert.Equal(t, int64(10), reports[0].FilledQty)

	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, "S1", bids[0].ID)
	assert.Equal(t, int64(5), bids[0].Quantity)
}

func TestBook_Submit_PriceOrderingInvariant(t *testing.T) {
	book := newTestBook()

	prices := []float64{100.0, 103.0, 99.5, 101.0, 103.0, 100.0, 102.5}
	for i, price := range prices {
		book.Submit(limitOrder(string(rune('a'+i)), orderbookv1.SideBuy, 10, price))
	}
	for i, price := range []float64{110.0, 108.0, 112.0, 108.0} {
		book.Submit(limitOrder(string(rune('A'+i)), orderbookv1.SideSell, 10, price))
	}

	bids := book.Bids()
	for i := 1; i < len(bids); i++ {
		assert.GreaterOrEqual(t, bids[i-1].Price, bids[i].Price)
		if bids[i-1].Price == bids[i].Price {
			assert.False(t, bids[i-1].Timestamp.After(bids[i].Timestamp))
		}
	}

	asks := book.Asks()
	for i := 1; i < len(asks); i++ {
		assert.LessOrEqual(t, asks[i-1].Price, asks[i].Price)
		if asks[i-1].Price == asks[i].Price {
			assert.False(t, asks[i-1].Timestamp.After(asks[i].Timestamp))
		}
	}
}

func TestBook_Submit_IdenticalTimestampTieBreak(t *testing.T) {
	// a frozen clock forces identical timestamps; arrival order must win
	book := NewBook("AAPL", frozenClock{time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)})

	book.Submit(limitOrder("first", orderbookv1.SideBuy, 10, 100.0))
	book.Submit(limitOrder("second", orderbookv1.SideBuy, 10, 100.0))
	book.Submit(limitOrder("third", orderbookv1.SideBuy, 10, 100.0))

	bids := book.Bids()
	require.Len(t, bids, 3)
	assert.Equal(t, "first", bids[0].ID)
	assert.Equal(t, "second", bids[1].ID)
	assert.Equal(t, "third", bids[2].ID)
}

type frozenClock struct {
	at time.Time
}

func (c frozenClock) Now() time.Time {
	return c.at
}

func TestBook_Submit_QuantityConservation(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 40, 101.0))
	book.Submit(limitOrder("A2", orderbookv1.SideSell, 60, 102.0))

	reports := book.Submit(limitOrder("B1", orderbookv1.SideBuy, 70, 102.0))

	var aggressorFilled, restingFilled int64
	for _, report := range reports {
		if report.OrderID == "B1" {
			aggressorFilled += report.FilledQty
		} else {
			restingFilled += report.FilledQty
		}
		assert.Positive(t, report.FilledQty)
	}
	assert.Equal(t, aggressorFilled, restingFilled)
	assert.Equal(t, int64(70), aggressorFilled)

	// no zero-quantity order is ever left resting
	for _, o := range book.Asks() {
		assert.Positive(t, o.Quantity)
	}
	for _, o := range book.Bids() {
		assert.Positive(t, o.Quantity)
	}
}

func TestBook_Cancel(t *testing.T) {
	t.Run("removes a resting order", func(t *testing.T) {
		book := newTestBook()
		book.Submit(limitOrder("B1", orderbookv1.SideBuy, 10, 100.0))
		book.Submit(limitOrder("B2", orderbookv1.SideBuy, 10, 100.0))

		require.NoError(t, book.Cancel("B1"))

		bids := book.Bids()
		require.Len(t, bids, 1)
		assert.Equal(t, "B2", bids[0].ID)
	})

	t.Run("unknown order id", func(t *testing.T) {
		book := newTestBook()
		err := book.Cancel("missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("already filled order is gone", func(t *testing.T) {
		book := newTestBook()
		book.Submit(limitOrder("B1", orderbookv1.SideBuy, 10, 100.0))
		book.Submit(limitOrder("S1", orderbookv1.SideSell, 10, 100.0))

		err := book.Cancel("B1")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestBook_Amend(t *testing.T) {
	t.Run("quantity keeps queue position", func(t *testing.T) {
		book := newTestBook()
		book.Submit(limitOrder("B1", orderbookv1.SideBuy, 10, 100.0))
		book.Submit(limitOrder("B2", orderbookv1.SideBuy, 10, 100.0))

		require.NoError(t, book.Amend("B1", 25, 0))

		bids := book.Bids()
		require.Len(t, bids, 2)
		assert.Equal(t, "B1", bids[0].ID)
		assert.Equal(t, int64(25), bids[0].Quantity)
	})

	t.Run("price moves the order to its new level", func(t *testing.T) {
		book := newTestBook()
		book.Submit(limitOrder("B1", orderbookv1.SideBuy, 10, 100.0))
		book.Submit(limitOrder("B2", orderbookv1.SideBuy, 10, 101.0))

		require.NoError(t, book.Amend("B1", 0, 102.0))

		bids := book.Bids()
		require.Len(t, bids, 2)
		assert.Equal(t, "B1", bids[0].ID)
		assert.Equal(t, 102.0, bids[0].Price)
	})

	t.Run("unknown order id", func(t *testing.T) {
		book := newTestBook()
		err := book.Amend("missing", 5, 0)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestBook_Volumes(t *testing.T) {
	book := newTestBook()
	book.Submit(limitOrder("B1", orderbookv1.SideBuy, 10, 100.0))
	book.Submit(limitOrder("B2", orderbookv1.SideBuy, 20, 99.0))
	book.Submit(limitOrder("A1", orderbookv1.SideSell, 5, 101.0))

	assert.Equal(t, int64(30), book.BidTotalVolume())
	assert.Equal(t, int64(5), book.AskTotalVolume())

	bestBid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, "B1", bestBid.ID)

	bestAsk, ok := book.BestAsk()
	require.True(t, ok)
	assert.Equal(t, "A1", bestAsk.ID)

	_, ok = NewBook("MSFT", nil).BestBid()
	assert.False(t, ok)
}

func TestBook_Submit_ContractViolationsPanic(t *testing.T) {
	book := newTestBook()

	assert.Panics(t, func() {
		book.Submit(limitOrder("bad", orderbookv1.SideBuy, 0, 100.0))
	})
	assert.Panics(t, func() {
		book.Submit(limitOrder("bad", orderbookv1.SideBuy, 10, 0))
	})
	assert.Panics(t, func() {
		book.Submit(nil)
	})
}
