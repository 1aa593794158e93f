package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
	"github.com/yunhanbi/finm250-quant-2025/pkg/postgresql"
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new order repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Store stores an order row.
func (r *repository) Store(ctx context.Context, row *Row) error {
	query := `INSERT INTO orders (id, symbol, side, type, quantity, filled_quantity, price, status, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	cmd, err := r.db.Exec(ctx, query,
		row.ID,
		row.Symbol,
		row.Side,
		row.Type,
		row.Quantity,
		row.FilledQty,
		row.Price,
		row.Status,
		row.Timestamp,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Inserted order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// StoreBatch stores a batch of order rows.
func (r *repository) StoreBatch(ctx context.Context, rows []*Row) error {
	copyCount, err := r.db.CopyFrom(ctx, pgx.Identifier{"orders"}, []string{
		"id",
		"symbol",
		"side",
		"type",
		"quantity",
		"filled_quantity",
		"price",
		"status",
		"timestamp",
	}, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		row := rows[i]
		return []any{
			row.ID,
			row.Symbol,
			row.Side,
			row.Type,
			row.Quantity,
			row.FilledQty,
			row.Price,
			row.Status,
			row.Timestamp,
		}, nil
	}))

	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Inserted batch of orders", logger.Field{
		Key:   "copyCount",
		Value: copyCount,
	})

	return nil
}

// Update updates an order row.
func (r *repository) Update(ctx context.Context, row *Row) error {
	query := `UPDATE orders SET quantity = $1, filled_quantity = $2, price = $3, status = $4 WHERE id = $5`

	cmd, err := r.db.Exec(ctx, query,
		row.Quantity,
		row.FilledQty,
		row.Price,
		row.Status,
		row.ID,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Updated order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetByID gets an order row by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Row, error) {
	query := `SELECT id, symbol, side, type, quantity, filled_quantity, price, status, timestamp FROM orders WHERE id = $1`

	row := &Row{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.Symbol,
		&row.Side,
		&row.Type,
		&row.Quantity,
		&row.FilledQty,
		&row.Price,
		&row.Status,
		&row.Timestamp,
	)

	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return row, nil
}

// List lists order rows matching the filter.
func (r *repository) List(ctx context.Context, filter Filter) ([]*Row, error) {
	query := `SELECT id, symbol, side, type, quantity, filled_quantity, price, status, timestamp FROM orders WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	if filter.Side != "" {
		query += fmt.Sprintf(" AND side = $%d", argIndex)
		args = append(args, filter.Side)
		argIndex++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
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

	if filter.SortDirection != "" {
		query += fmt.Sprintf(" ORDER BY timestamp %s", filter.SortDirection)
	} else {
		query += " ORDER BY timestamp DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
		argIndex++
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	result := []*Row{}
	for rows.Next() {
		row := &Row{}
		err := rows.Scan(
			&row.ID,
			&row.Symbol,
			&row.Side,
			&row.Type,
			&row.Quantity,
			&row.FilledQty,
			&row.Price,
			&row.Status,
			&row.Timestamp,
		)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		result = append(result, row)
	}

	return result, nil
}

// Delete deletes an order row.
func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return errors.TracerFromError(err)
	}

	return nil
}
