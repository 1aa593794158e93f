package omsv1

import (
	"context"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// OrderManager is the validation boundary in front of the book. It owns
// order statuses and fill bookkeeping; the book itself trusts whatever the
// manager forwards.
type OrderManager interface {
	NewOrder(ctx context.Context, req NewOrderRequest) (*ManagedOrder, []orderbookv1.ExecutionReport, error)
	CancelOrder(ctx context.Context, orderID string) (*ManagedOrder, error)
	AmendOrder(ctx context.Context, orderID string, quantity int64, price float64) (*ManagedOrder, error)
	GetOrder(orderID string) (*ManagedOrder, bool)
}
