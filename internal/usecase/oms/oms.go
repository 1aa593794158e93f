package oms

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	omsv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/oms/v1"
	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
	orderrepo "github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/postgresql/order"
	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Usecase is the order manager. It validates incoming requests, forwards the
// valid ones to the book, and keeps per-order status and fill bookkeeping for
// every order it has seen, including resting counterparties touched by later
// aggressors.
//
// The repository is optional; with a nil repository the manager runs purely
// in memory, which is how the backtest runner uses it.
type Usecase struct {
	mu     sync.Mutex
	book   orderbookv1.Book
	clock  orderbookv1.Clock
	repo   orderrepo.Repository
	logger logger.Interface

	orders map[string]*omsv1.ManagedOrder
}

var _ omsv1.OrderManager = (*Usecase)(nil)

// NewUsecase creates a new order manager in front of the given book.
func NewUsecase(book orderbookv1.Book, clock orderbookv1.Clock, repo orderrepo.Repository, logger logger.Interface) *Usecase {
	if clock == nil {
		clock = orderbookv1.NewRealClock()
	}
	return &Usecase{
		book:   book,
		clock:  clock,
		repo:   repo,
		logger: logger,
		orders: make(map[string]*omsv1.ManagedOrder),
	}
}

// NewOrder validates and places an order. On success it returns the managed
// record and the execution reports the book produced for it. Validation
// failures return a rejected record alongside the error.
func (u *Usecase) NewOrder(ctx context.Context, req omsv1.NewOrderRequest) (*omsv1.ManagedOrder, []orderbookv1.ExecutionReport, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	managed := &omsv1.ManagedOrder{
		ID:        req.ID,
		Symbol:    req.Symbol,
		Side:      req.Side,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Timestamp: u.clock.Now(),
	}

	if err := u.validate(req); err != nil {
		managed.Status = omsv1.StatusRejected
		u.logger.WarnContext(ctx, fmt.Sprintf("rejected order %s: %v", req.ID, err))
		return managed, nil, err
	}

	if _, exists := u.orders[req.ID]; exists {
		managed.Status = omsv1.StatusRejected
		return managed, nil, errors.NewErrorDetails(
			fmt.Sprintf("order id %s already tracked", req.ID),
			string(errors.OrderDuplicateID),
			"id",
		)
	}

	managed.Status = omsv1.StatusAccepted
	u.orders[req.ID] = managed

	order := orderbookv1.NewOrder(req.ID, req.Symbol, req.Side, req.Type, req.Quantity, req.Price)
	order.Timestamp = managed.Timestamp

	reports := u.book.Submit(order)
	u.applyReports(ctx, reports, req.ID)

	// market remainder never rests, so a partially executed market order is
	// terminal as soon as the book returns
	if req.Type == orderbookv1.OrderTypeMarket && !managed.Status.IsTerminal() {
		managed.Status = omsv1.StatusCanceled
	}

	u.persist(ctx, managed)

	return managed, reports, nil
}

// CancelOrder removes a resting order. Orders in a terminal status cannot be
// canceled.
func (u *Usecase) CancelOrder(ctx context.Context, orderID string) (*omsv1.ManagedOrder, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	managed, exists := u.orders[orderID]
	if !exists {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("order %s not found", orderID),
			string(errors.OrderNotFound),
			"id",
		)
	}

	if managed.Status.IsTerminal() {
		return managed, errors.NewErrorDetails(
			fmt.Sprintf("order %s is %s", orderID, managed.Status),
			string(errors.OrderTerminalStatus),
			"status",
		)
	}

	if err := u.book.Cancel(orderID); err != nil {
		return managed, errors.TracerFromError(err)
	}

	managed.Status = omsv1.StatusCanceled
	u.persist(ctx, managed)

	return managed, nil
}

// AmendOrder changes quantity and/or price of an accepted order that has not
// traded yet. A zero quantity or price leaves that field unchanged.
func (u *Usecase) AmendOrder(ctx context.Context, orderID string, quantity int64, price float64) (*omsv1.ManagedOrder, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	managed, exists := u.orders[orderID]
	if !exists {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("order %s not found", orderID),
			string(errors.OrderNotFound),
			"id",
		)
	}

	if managed.Status != omsv1.StatusAccepted {
		return managed, errors.NewErrorDetails(
			fmt.Sprintf("order %s is %s", orderID, managed.Status),
			string(errors.OrderTerminalStatus),
			"status",
		)
	}

	if managed.FilledQty > 0 {
		return managed, errors.NewErrorDetails(
			fmt.Sprintf("order %s has already traded", orderID),
			string(errors.OrderAlreadyFilled),
			"filledQty",
		)
	}

	if quantity < 0 {
		return managed, errors.NewErrorDetails(
			"quantity must be greater than 0",
			string(errors.OrderInvalidQuantity),
			"quantity",
		)
	}

	if price > 0 && !managed.Type.RequiresPrice() {
		return managed, errors.NewErrorDetails(
			fmt.Sprintf("%s orders carry no price", managed.Type),
			string(errors.OrderMissingPrice),
			"price",
		)
	}

	if err := u.book.Amend(orderID, quantity, price); err != nil {
		return managed, errors.TracerFromError(err)
	}

	if quantity > 0 {
		managed.Quantity = quantity
	}
	if price > 0 {
		managed.Price = price
	}
	u.persist(ctx, managed)

	return managed, nil
}

// GetOrder returns a copy of the managed record for the given id.
func (u *Usecase) GetOrder(orderID string) (*omsv1.ManagedOrder, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	managed, exists := u.orders[orderID]
	if !exists {
		return nil, false
	}
	cp := *managed
	return &cp, true
}

// applyReports folds a batch of execution reports into the managed records.
// Reports arrive in emission order, so FilledQty only ever grows. Touched
// counterparties are persisted here; the aggressor is persisted once by
// NewOrder after its final status is known.
func (u *Usecase) applyReports(ctx context.Context, reports []orderbookv1.ExecutionReport, aggressorID string) {
	for _, report := range reports {
		managed, exists := u.orders[report.OrderID]
		if !exists {
			continue
		}

		managed.FilledQty += report.FilledQty
		if managed.FilledQty >= managed.Quantity {
			managed.Status = omsv1.StatusFilled
		} else {
			managed.Status = omsv1.StatusPartiallyFilled
		}

		if report.OrderID != aggressorID {
			u.persist(ctx, managed)
		}
	}
}

func (u *Usecase) validate(req omsv1.NewOrderRequest) error {
	if req.Symbol == "" {
		return errors.NewErrorDetails(
			"symbol is required",
			string(errors.GeneralBadRequestError),
			"symbol",
		)
	}

	switch req.Side {
	case orderbookv1.SideBuy, orderbookv1.SideSell:
	default:
		return errors.NewErrorDetails(
			fmt.Sprintf("unknown side %q", req.Side),
			string(errors.OrderInvalidSide),
			"side",
		)
	}

	switch req.Type {
	case orderbookv1.OrderTypeMarket, orderbookv1.OrderTypeLimit, orderbookv1.OrderTypeStop:
	default:
		return errors.NewErrorDetails(
			fmt.Sprintf("unknown order type %q", req.Type),
			string(errors.OrderInvalidType),
			"type",
		)
	}

	if req.Quantity <= 0 {
		return errors.NewErrorDetails(
			"quantity must be greater than 0",
			string(errors.OrderInvalidQuantity),
			"quantity",
		)
	}

	if req.Type != orderbookv1.OrderTypeMarket && req.Price <= 0 {
		return errors.NewErrorDetails(
			fmt.Sprintf("%s orders require a positive price", req.Type),
			string(errors.OrderMissingPrice),
			"price",
		)
	}

	return nil
}

// persist mirrors the record to the order repository when one is configured.
// Persistence failures are logged, not surfaced; the in-memory state is
// authoritative for matching.
func (u *Usecase) persist(ctx context.Context, managed *omsv1.ManagedOrder) {
	if u.repo == nil {
		return
	}

	row := &orderrepo.Row{}
	row.FromManagedOrder(managed)

	existing, err := u.repo.GetByID(ctx, managed.ID)
	if err == nil && existing != nil {
		err = u.repo.Update(ctx, row)
	} else {
		err = u.repo.Store(ctx, row)
	}
	if err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "orderID",
			Value: managed.ID,
		})
	}
}
