package bar

import (
	"context"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// BarRepository is the repository for OHLCV bars.
type BarRepository interface {
	Store(ctx context.Context, bar *marketdatav1.Bar) error
	StoreBatch(ctx context.Context, bars []*marketdatav1.Bar) error
	GetByFilter(ctx context.Context, filter Filter) ([]*marketdatav1.Bar, error)
	GetLatest(ctx context.Context, symbol, interval string) (*marketdatav1.Bar, error)
}
