package order

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository is the repository for managed orders.
type Repository interface {
	Store(ctx context.Context, row *Row) error
	StoreBatch(ctx context.Context, rows []*Row) error
	Update(ctx context.Context, row *Row) error
	GetByID(ctx context.Context, id string) (*Row, error)
	List(ctx context.Context, filter Filter) ([]*Row, error)
	Delete(ctx context.Context, id string) error
}
