package service

import (
	"context"

	"augustlab-backend/internal/domains/blog"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type blogService struct {
	repo blog.Repository
	pool *pgxpool.Pool
}

func NewBlogService(repo blog.Repository, pool *pgxpool.Pool) blog.Service {
	return &blogService{repo: repo, pool: pool}
}

func (s *blogService) List(ctx context.Context, q *blog.ListQuery) ([]*blog.Post, error) {
	if err := q.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	return s.repo.List(ctx, q)
}

// GetPublished resolves a post for the public route. Drafts read as absent.
func (s *blogService) GetPublished(ctx context.Context, id int) (*blog.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		return nil, blog.ErrNotFound
	}
	return post, nil
}

func (s *blogService) GetByID(ctx context.Context, id int) (*blog.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *blogService) Create(ctx context.Context, req *blog.CreatePostRequest) (*blog.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	if field, err := req.Normalize(); err != nil {
		return nil, apierror.Validation(err.Error(), field)
	}

	results, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return s.repo.Create(ctx, tx, req)
		},
	}, true)
	if err != nil {
		return nil, err
	}
	return results[0].(*blog.Post), nil
}

func (s *blogService) Update(ctx context.Context, id int, req *blog.UpdatePostRequest) (*blog.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	if field, err := req.Normalize(); err != nil {
		return nil, apierror.Validation(err.Error(), field)
	}

	results, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return s.repo.Update(ctx, tx, id, req)
		},
	}, true)
	if err != nil {
		return nil, err
	}
	return results[0].(*blog.Post), nil
}

func (s *blogService) Delete(ctx context.Context, id int) error {
	_, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return nil, s.repo.Delete(ctx, tx, id)
		},
	}, true)
	return err
}
