package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	"github.com/yunhanbi/finm250-quant-2025/internal/infrastructure/questdb/bar"
	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/interval"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

// Usecase serves bar history at one interval. Full-history reads are cached
// per symbol; explicit range reads go to the repository every time.
type Usecase struct {
	repo     bar.BarRepository
	logger   logger.Interface
	interval string
	bucket   interval.Interval

	mu    sync.Mutex
	cache map[string][]marketdatav1.Bar
}

var _ marketdatav1.History = (*Usecase)(nil)

// NewUsecase creates a history service over the bar repository for one
// interval.
func NewUsecase(repo bar.BarRepository, intervalName string, log logger.Interface) (*Usecase, error) {
	iv, err := interval.GetInterval(intervalName)
	if err != nil {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("invalid interval %q, supported: %v", intervalName, interval.GetAllIntervalNames()),
			string(errors.MarketDataInvalidInterval),
			"interval",
		)
	}

	return &Usecase{
		repo:     repo,
		logger:   log,
		interval: intervalName,
		bucket:   iv,
		cache:    make(map[string][]marketdatav1.Bar),
	}, nil
}

// GetHistory returns bars for a symbol, oldest first. A zero from/to pair
// returns the full stored history from the per-symbol cache.
func (u *Usecase) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]marketdatav1.Bar, error) {
	if from.IsZero() && to.IsZero() {
		return u.fullHistory(ctx, symbol)
	}

	filter := bar.Filter{Symbol: symbol, Interval: u.interval}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}

	rows, err := u.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	return derefBars(rows), nil
}

// GetPrice returns the close of the last bar at or before the given time.
func (u *Usecase) GetPrice(ctx context.Context, symbol string, at time.Time) (float64, error) {
	bars, err := u.fullHistory(ctx, symbol)
	if err != nil {
		return 0, err
	}

	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Timestamp.After(at) {
			return bars[i].Close, nil
		}
	}

	return 0, errors.NewErrorDetails(
		fmt.Sprintf("no bar at or before %s for %s", at.Format(time.RFC3339), symbol),
		string(errors.MarketDataNotFound),
		"timestamp",
	)
}

// GetVolume returns the total volume over a time range.
func (u *Usecase) GetVolume(ctx context.Context, symbol string, from, to time.Time) (int64, error) {
	bars, err := u.GetHistory(ctx, symbol, from, to)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, b := range bars {
		total += b.Volume
	}
	return total, nil
}

// GetLatest returns the most recent bar for a symbol, or nil when the symbol
// has no stored history.
func (u *Usecase) GetLatest(ctx context.Context, symbol string) (*marketdatav1.Bar, error) {
	return u.repo.GetLatest(ctx, symbol, u.interval)
}

// Load stores a batch of bars and drops the affected symbols from the cache.
func (u *Usecase) Load(ctx context.Context, bars []marketdatav1.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	rows := make([]*marketdatav1.Bar, len(bars))
	for i := range bars {
		if bars[i].Interval == "" {
			bars[i].Interval = u.interval
		}
		rows[i] = &bars[i]
	}

	if err := u.repo.StoreBatch(ctx, rows); err != nil {
		return err
	}

	u.mu.Lock()
	for _, b := range bars {
		delete(u.cache, b.Symbol)
	}
	u.mu.Unlock()

	u.logger.InfoContext(ctx, fmt.Sprintf("loaded %d bars", len(bars)))

	return nil
}

// LoadTrades buckets trade prints into bars at the service interval and
// stores them. Trades must be sorted by timestamp so each bucket's open and
// close land correctly.
func (u *Usecase) LoadTrades(ctx context.Context, symbol string, trades []interval.TickData) error {
	if len(trades) == 0 {
		return nil
	}

	var bars []marketdatav1.Bar
	start := 0
	bucketTime := u.bucket.CalculateBucketTime(trades[0].Timestamp)

	flush := func(end int) {
		ohlc := u.bucket.AggregateOHLC(trades[start:end], bucketTime)
		bars = append(bars, marketdatav1.Bar{
			Timestamp: ohlc.Timestamp,
			Symbol:    symbol,
			Interval:  u.interval,
			Open:      ohlc.Open,
			High:      ohlc.High,
			Low:       ohlc.Low,
			Close:     ohlc.Close,
			Volume:    ohlc.Volume,
		})
	}

	for i := 1; i < len(trades); i++ {
		next := u.bucket.CalculateBucketTime(trades[i].Timestamp)
		if !next.Equal(bucketTime) {
			flush(i)
			start = i
			bucketTime = next
		}
	}
	flush(len(trades))

	return u.Load(ctx, bars)
}

func (u *Usecase) fullHistory(ctx context.Context, symbol string) ([]marketdatav1.Bar, error) {
	u.mu.Lock()
	cached, exists := u.cache[symbol]
	u.mu.Unlock()
	if exists {
		return cached, nil
	}

	rows, err := u.repo.GetByFilter(ctx, bar.Filter{Symbol: symbol, Interval: u.interval})
	if err != nil {
		return nil, err
	}

	bars := derefBars(rows)

	u.mu.Lock()
	u.cache[symbol] = bars
	u.mu.Unlock()

	return bars, nil
}

func derefBars(rows []*marketdatav1.Bar) []marketdatav1.Bar {
	bars := make([]marketdatav1.Bar, len(rows))
	for i, row := range rows {
		bars[i] = *row
	}
	return bars
}
