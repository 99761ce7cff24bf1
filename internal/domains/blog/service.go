package blog

import "context"

type Service interface {
	List(ctx context.Context, q *ListQuery) ([]*Post, error)
	GetPublished(ctx context.Context, id int) (*Post, error)
	GetByID(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, req *CreatePostRequest) (*Post, error)
	Update(ctx context.Context, id int, req *UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id int) error
}
