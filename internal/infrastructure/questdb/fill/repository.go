package fill

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yunhanbi/finm250-quant-2025/pkg/questdb"
)

// Repository represents the repository for fills.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new fill repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a single fill.
func (r *Repository) Store(ctx context.Context, fill *Fill) error {
	query := `INSERT INTO fills (timestamp, order_id, symbol, side, quantity, price, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	err := r.client.Exec(ctx, query,
		fill.Timestamp, fill.OrderID, fill.Symbol, fill.Side,
		fill.Quantity, fill.Price, fill.Status)

	if err != nil {
		return fmt.Errorf("failed to store fill: %w", err)
	}

	return nil
}

// StoreBatch stores a batch of fills.
func (r *Repository) StoreBatch(ctx context.Context, fills []*Fill) error {
	if len(fills) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"fills"},
		[]string{"timestamp", "order_id", "symbol", "side", "quantity", "price", "status"},
		pgx.CopyFromSlice(len(fills), func(i int) ([]any, error) {
			fill := fills[i]
			return []any{
				fill.Timestamp,
				fill.OrderID,
				fill.Symbol,
				fill.Side,
				fill.Quantity,
				fill.Price,
				fill.Status,
			}, nil
		}),
	)

	if err != nil {
		return fmt.Errorf("failed to copy fill batch: %w", err)
	}

	return nil
}

// GetByFilter retrieves fills by filter, oldest first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*Fill, error) {
	query := "SELECT timestamp, order_id, symbol, side, quantity, price, status FROM fills WHERE 1=1"
	args := []any{}
	argIndex := 1

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	if filter.OrderID != "" {
		query += fmt.Sprintf(" AND order_id = $%d", argIndex)
		args = append(args, filter.OrderID)
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
		return nil, fmt.Errorf("failed to query fills: %w", err)
	}
	defer rows.Close()

	var fills []*Fill
	for rows.Next() {
		fill := &Fill{}
		err := rows.Scan(&fill.Timestamp, &fill.OrderID, &fill.Symbol, &fill.Side,
			&fill.Quantity, &fill.Price, &fill.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fill: %w", err)
		}
		fills = append(fills, fill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return fills, nil
}
