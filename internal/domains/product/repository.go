package product

import (
	"context"

	"augustlab-backend/internal/shared"
)

// Repository persists the product catalogue. Write methods take a
// shared.Querier so they run against the pool directly or inside a batch
// transaction.
type Repository interface {
	List(ctx context.Context, q *ListQuery) ([]*Product, error)
	ListIDs(ctx context.Context) ([]int, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	Create(ctx context.Context, db shared.Querier, req *CreateProductRequest) (*Product, error)
	Update(ctx context.Context, db shared.Querier, id int, req *UpdateProductRequest) (*Product, error)
	SetFilePath(ctx context.Context, db shared.Querier, id int, filePath string) error
	Delete(ctx context.Context, db shared.Querier, id int) error
}
