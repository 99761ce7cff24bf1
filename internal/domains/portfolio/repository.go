package portfolio

import (
	"context"

	"augustlab-backend/internal/shared"
)

// Repository persists portfolio items. Write methods take a shared.Querier so
// they run against the pool directly or inside a batch transaction.
type Repository interface {
	List(ctx context.Context, q *ListQuery) ([]*Portfolio, error)
	GetByID(ctx context.Context, id int) (*Portfolio, error)
	Create(ctx context.Context, db shared.Querier, req *CreatePortfolioRequest) (*Portfolio, error)
	Update(ctx context.Context, db shared.Querier, id int, req *UpdatePortfolioRequest) (*Portfolio, error)
	Delete(ctx context.Context, db shared.Querier, id int) error
}
