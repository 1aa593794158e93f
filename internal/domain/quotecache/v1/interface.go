package quotecachev1

import (
	"context"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
)

// Cache defines the interface for storing and loading derived top-of-book
// quotes. It holds quotes only, never book state.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=quotecachev1_mock
type Cache interface {
	// Store stores the quote for the instrument.
	Store(ctx context.Context, quote *marketdatav1.Quote) error
	// Load loads the last stored quote. It returns nil when no quote has
	// been stored yet.
	Load(ctx context.Context) (*marketdatav1.Quote, error)
}
