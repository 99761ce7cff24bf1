package service

import (
	"context"
	"fmt"
	"io"

	"augustlab-backend/internal/domains/product"
	"augustlab-backend/internal/infrastructure/filestore"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productService struct {
	repo     product.Repository
	pool     *pgxpool.Pool
	store    *filestore.Store
	registry *product.Registry
}

func NewProductService(repo product.Repository, pool *pgxpool.Pool, store *filestore.Store, registry *product.Registry) product.Service {
	return &productService{repo: repo, pool: pool, store: store, registry: registry}
}

func (s *productService) List(ctx context.Context, q *product.ListQuery) ([]*product.Product, error) {
	if err := q.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	return s.repo.List(ctx, q)
}

func (s *productService) GetByID(ctx context.Context, id int) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, req *product.CreateProductRequest) (*product.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	if field, err := req.Normalize(); err != nil {
		return nil, apierror.Validation(err.Error(), field)
	}
	if _, err := s.registry.Get(req.ProductType); err != nil {
		return nil, apierror.Validation(err.Error(), "product_type")
	}

	results, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return s.repo.Create(ctx, tx, req)
		},
	}, true)
	if err != nil {
		return nil, err
	}
	return results[0].(*product.Product), nil
}

func (s *productService) Update(ctx context.Context, id int, req *product.UpdateProductRequest) (*product.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	if field, err := req.Normalize(); err != nil {
		return nil, apierror.Validation(err.Error(), field)
	}
	if req.ProductType != nil {
		if _, err := s.registry.Get(*req.ProductType); err != nil {
			return nil, apierror.Validation(err.Error(), "product_type")
		}
	}

	results, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return s.repo.Update(ctx, tx, id, req)
		},
	}, true)
	if err != nil {
		return nil, err
	}
	return results[0].(*product.Product), nil
}

// Delete removes the catalogue row and then the bundle directory. The row
// goes first so a failed directory removal leaves an orphan the cleanup
// CLI can collect, never a dangling catalogue entry.
func (s *productService) Delete(ctx context.Context, id int) error {
	_, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return nil, s.repo.Delete(ctx, tx, id)
		},
	}, true)
	if err != nil {
		return err
	}
	return s.store.Delete(id)
}

func (s *productService) Upload(ctx context.Context, id int, archive io.ReaderAt, size int64) (*product.UploadResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ext, err := s.registry.Get(p.ProductType)
	if err != nil {
		return nil, err
	}

	if err := s.store.Accept(ctx, id, archive, size, p.EntryFile); err != nil {
		return nil, err
	}

	listing, err := s.store.List(id)
	if err != nil {
		return nil, err
	}
	if err := ext.Validate(listing.Files); err != nil {
		// Type-level rejection after extraction: roll the bundle back.
		s.store.Delete(id)
		return nil, &filestore.RejectError{Reason: err.Error()}
	}

	_, err = database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return nil, s.repo.SetFilePath(ctx, tx, id, fmt.Sprintf("%d", id))
		},
	}, true)
	if err != nil {
		return nil, err
	}

	return &product.UploadResponse{
		ProductID: id,
		Files:     ext.Process(listing.Files),
		TotalSize: listing.TotalSize,
	}, nil
}

func (s *productService) Files(ctx context.Context, id int) (*filestore.Listing, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.List(id)
}

func (s *productService) Verify(ctx context.Context, id int) (*product.VerifyResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, message := s.store.Verify(id, p.EntryFile)
	return &product.VerifyResponse{ProductID: id, Valid: ok, Message: message}, nil
}

func (s *productService) LaunchConfig(ctx context.Context, id int) (map[string]any, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ext, err := s.registry.Get(p.ProductType)
	if err != nil {
		return nil, err
	}
	return ext.LaunchConfig(p.ConfigData), nil
}
