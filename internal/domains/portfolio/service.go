package portfolio

import "context"

type Service interface {
	List(ctx context.Context, q *ListQuery) ([]*Portfolio, error)
	GetByID(ctx context.Context, id int) (*Portfolio, error)
	Create(ctx context.Context, req *CreatePortfolioRequest) (*Portfolio, error)
	Update(ctx context.Context, id int, req *UpdatePortfolioRequest) (*Portfolio, error)
	Delete(ctx context.Context, id int) error
}
