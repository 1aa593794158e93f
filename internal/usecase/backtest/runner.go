package backtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	omsv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/oms/v1"
	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
	positionv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/position/v1"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/oms"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/orderbook"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/position"
	"github.com/yunhanbi/finm250-quant-2025/internal/usecase/strategy"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Result summarizes one backtest run.
type Result struct {
	Strategy    string             `json:"strategy"`
	Trades      int                `json:"trades"`
	TotalReturn float64            `json:"totalReturn"`
	MaxDrawdown float64            `json:"maxDrawdown"`
	FinalCash   float64            `json:"finalCash"`
	Summary     positionv1.Summary `json:"summary"`
}

// desk is the per-symbol matching stack. Legs of a multi-symbol strategy
// trade independent books with no cross-leg atomicity.
type desk struct {
	manager omsv1.OrderManager
	book    orderbookv1.Book
}

// Runner replays strategy signals through an order manager and book per
// symbol, feeding the resulting execution reports into one shared position
// tracker. Each signal is preceded by a synthetic resting order on the
// opposite side at the signal price, so the strategy order executes at
// exactly that price and the full submit/match/report path is exercised.
type Runner struct {
	clock        orderbookv1.Clock
	logger       logger.Interface
	tracker      *position.Tracker
	startingCash float64
	desks        map[string]*desk
}

// NewRunner creates a backtest runner with the given starting cash.
func NewRunner(startingCash float64, clock orderbookv1.Clock, log logger.Interface) *Runner {
	if clock == nil {
		clock = orderbookv1.NewRealClock()
	}
	return &Runner{
		clock:        clock,
		logger:       log,
		tracker:      position.NewTracker(startingCash),
		startingCash: startingCash,
		desks:        make(map[string]*desk),
	}
}

// Tracker exposes the shared position tracker.
func (r *Runner) Tracker() positionv1.Tracker {
	return r.tracker
}

// Run replays the signals in order and returns the run summary. Current
// prices mark open positions for the unrealized P&L component.
func (r *Runner) Run(ctx context.Context, name string, signals []strategy.Signal, currentPrices map[string]float64) (*Result, error) {
	trades := 0

	for _, signal := range signals {
		d := r.deskFor(signal.Symbol)

		r.placeLiquidity(d, signal)

		managed, reports, err := d.manager.NewOrder(ctx, omsv1.NewOrderRequest{
			ID:       uuid.NewString(),
			Symbol:   signal.Symbol,
			Side:     signal.Side,
			Type:     orderbookv1.OrderTypeLimit,
			Quantity: signal.Quantity,
			Price:    signal.Price,
		})
		if err != nil {
			return nil, err
		}

		for _, report := range reports {
			if report.OrderID != managed.ID {
				continue
			}
			r.tracker.Update(report)
			trades++
		}
	}

	summary := r.tracker.Summary(currentPrices)

	result := &Result{
		Strategy:    name,
		Trades:      trades,
		TotalReturn: summary.TotalPnL / r.startingCash,
		MaxDrawdown: r.maxDrawdown(),
		FinalCash:   summary.Cash,
		Summary:     summary,
	}

	r.logger.InfoContext(ctx, fmt.Sprintf("backtest %s complete", name),
		logger.Field{Key: "trades", Value: result.Trades},
		logger.Field{Key: "totalReturn", Value: result.TotalReturn},
		logger.Field{Key: "finalCash", Value: result.FinalCash},
	)

	return result, nil
}

func (r *Runner) deskFor(symbol string) *desk {
	if d, exists := r.desks[symbol]; exists {
		return d
	}

	book := orderbook.NewBook(symbol, r.clock)
	d := &desk{
		manager: oms.NewUsecase(book, r.clock, nil, r.logger),
		book:    book,
	}
	r.desks[symbol] = d
	return d
}

// placeLiquidity rests a synthetic counterparty at the signal price so the
// strategy order has something to trade against.
func (r *Runner) placeLiquidity(d *desk, signal strategy.Signal) {
	side := orderbookv1.SideSell
	if signal.Side == orderbookv1.SideSell {
		side = orderbookv1.SideBuy
	}

	d.book.Submit(orderbookv1.NewOrder(
		"liq-"+uuid.NewString(),
		signal.Symbol,
		side,
		orderbookv1.OrderTypeLimit,
		signal.Quantity,
		signal.Price,
	))
}

// maxDrawdown walks the cumulative cash curve and returns the deepest
// fractional drop from its running peak, as a non-positive number.
func (r *Runner) maxDrawdown() float64 {
	equity := r.startingCash
	peak := equity
	maxDD := 0.0

	for _, fill := range r.tracker.Blotter() {
		equity += fill.CashFlow
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (equity - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}
