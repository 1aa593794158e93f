package marketdatav1

import (
	"context"
	"time"
)

// History serves bar history to strategies and the backtest runner. A zero
// from/to pair means the full stored history, which implementations may
// cache per symbol.
type History interface {
	GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
	GetPrice(ctx context.Context, symbol string, at time.Time) (float64, error)
	GetVolume(ctx context.Context, symbol string, from, to time.Time) (int64, error)
	GetLatest(ctx context.Context, symbol string) (*Bar, error)
	Load(ctx context.Context, bars []Bar) error
}
