package blog

import (
	"context"

	"augustlab-backend/internal/shared"
)

// Repository persists blog posts. Write methods take a shared.Querier so they
// run against the pool directly or inside a batch transaction.
type Repository interface {
	List(ctx context.Context, q *ListQuery) ([]*Post, error)
	GetByID(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, db shared.Querier, req *CreatePostRequest) (*Post, error)
	Update(ctx context.Context, db shared.Querier, id int, req *UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, db shared.Querier, id int) error
}
