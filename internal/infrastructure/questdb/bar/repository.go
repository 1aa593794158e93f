package bar

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	marketdatav1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/marketdata/v1"
	"github.com/yunhanbi/finm250-quant-2025/pkg/interval"
	"github.com/yunhanbi/finm250-quant-2025/pkg/questdb"
)

// Repository represents the repository for OHLCV bars.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new bar repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a single bar.
func (r *Repository) Store(ctx context.Context, bar *marketdatav1.Bar) error {
	if !interval.IsValidInterval(bar.Interval) {
		return fmt.Errorf("invalid interval: %s, supported: %v",
			bar.Interval, interval.GetAllIntervalNames())
	}

	query := `INSERT INTO bars (timestamp, symbol, interval, open, high, low, close, volume)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err := r.client.Exec(ctx, query,
		bar.Timestamp, bar.Symbol, bar.Interval, bar.Open, bar.High,
		bar.Low, bar.Close, bar.Volume)

	if err != nil {
		return fmt.Errorf("failed to store bar: %w", err)
	}

	return nil
}

// StoreBatch stores a batch of bars.
func (r *Repository) StoreBatch(ctx context.Context, bars []*marketdatav1.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"bars"},
		[]string{"timestamp", "symbol", "interval", "open", "high", "low", "close", "volume"},
		pgx.CopyFromSlice(len(bars), func(i int) ([]any, error) {
			bar := bars[i]
			return []any{
				bar.Timestamp,
				bar.Symbol,
				bar.Interval,
				bar.Open,
				bar.High,
				bar.Low,
				bar.Close,
				bar.Volume,
			}, nil
		}),
	)

	if err != nil {
		return fmt.Errorf("failed to copy bar batch: %w", err)
	}

	return nil
}

// GetByFilter retrieves bars by filter, oldest first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*marketdatav1.Bar, error) {
	query := "SELECT timestamp, symbol, interval, open, high, low, close, volume FROM bars WHERE 1=1"
	args := []any{}
	argIndex := 1

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	if filter.Interval != "" {
		query += fmt.Sprintf(" AND interval = $%d", argIndex)
		args = append(args, filter.Interval)
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY timestamp ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []*marketdatav1.Bar
	for rows.Next() {
		bar := &marketdatav1.Bar{}
		err := rows.Scan(&bar.Timestamp, &bar.Symbol, &bar.Interval, &bar.Open,
			&bar.High, &bar.Low, &bar.Close, &bar.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return bars, nil
}

// GetLatest retrieves the most recent bar for a symbol and interval.
func (r *Repository) GetLatest(ctx context.Context, symbol, interval string) (*marketdatav1.Bar, error) {
	query := `SELECT timestamp, symbol, interval, open, high, low, close, volume
			  FROM bars
			  WHERE symbol = $1 AND interval = $2
			  ORDER BY timestamp DESC
			  LIMIT 1`

	bar := &marketdatav1.Bar{}
	err := r.client.QueryRow(ctx, query, symbol, interval).Scan(
		&bar.Timestamp, &bar.Symbol, &bar.Interval, &bar.Open, &bar.High,
		&bar.Low, &bar.Close, &bar.Volume)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest bar: %w", err)
	}

	return bar, nil
}
