package order

import (
	"time"

	omsv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/oms/v1"
)

// Row is the persisted form of a managed order.
type Row struct {
	ID        string       `json:"id"`
	Symbol    string       `json:"symbol"`
	Side      string       `json:"side"`
	Type      string       `json:"type"`
	Quantity  int64        `json:"quantity"`
	FilledQty int64        `json:"filledQty"`
	Price     float64      `json:"price"`
	Status    omsv1.Status `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}

// FromManagedOrder populates the row from an order manager record.
func (r *Row) FromManagedOrder(o *omsv1.ManagedOrder) {
	r.ID = o.ID
	r.Symbol = o.Symbol
	r.Side = string(o.Side)
	r.Type = string(o.Type)
	r.Quantity = o.Quantity
	r.FilledQty = o.FilledQty
	r.Price = o.Price
	r.Status = o.Status
	r.Timestamp = o.Timestamp
}

// Filter represents the filter criteria for listing orders.
type Filter struct {
	Symbol        string     `json:"symbol"`
	Side          string     `json:"side"`
	Status        string     `json:"status"`
	From          *time.Time `json:"from"`
	To            *time.Time `json:"to"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
	SortDirection string     `json:"sortDirection"`
}
