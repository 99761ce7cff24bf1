package product

import (
	"context"
	"io"

	"augustlab-backend/internal/infrastructure/filestore"
)

type Service interface {
	List(ctx context.Context, q *ListQuery) ([]*Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	Create(ctx context.Context, req *CreateProductRequest) (*Product, error)
	Update(ctx context.Context, id int, req *UpdateProductRequest) (*Product, error)
	Delete(ctx context.Context, id int) error

	Upload(ctx context.Context, id int, archive io.ReaderAt, size int64) (*UploadResponse, error)
	Files(ctx context.Context, id int) (*filestore.Listing, error)
	Verify(ctx context.Context, id int) (*VerifyResponse, error)
	LaunchConfig(ctx context.Context, id int) (map[string]any, error)
}
