package fill

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// FillRepository is the repository for execution report fills.
type FillRepository interface {
	Store(ctx context.Context, fill *Fill) error
	StoreBatch(ctx context.Context, fills []*Fill) error
	GetByFilter(ctx context.Context, filter Filter) ([]*Fill, error)
}
