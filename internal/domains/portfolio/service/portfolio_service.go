package service

import (
	"context"

	"augustlab-backend/internal/domains/portfolio"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type portfolioService struct {
	repo portfolio.Repository
	pool *pgxpool.Pool
}

func NewPortfolioService(repo portfolio.Repository, pool *pgxpool.Pool) portfolio.Service {
	return &portfolioService{repo: repo, pool: pool}
}

func (s *portfolioService) List(ctx context.Context, q *portfolio.ListQuery) ([]*portfolio.Portfolio, error) {
	if err := q.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	return s.repo.List(ctx, q)
}

func (s *portfolioService) GetByID(ctx context.Context, id int) (*portfolio.Portfolio, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *portfolioService) Create(ctx context.Context, req *portfolio.CreatePortfolioRequest) (*portfolio.Portfolio, error) {
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
	return results[0].(*portfolio.Portfolio), nil
}

func (s *portfolioService) Update(ctx context.Context, id int, req *portfolio.UpdatePortfolioRequest) (*portfolio.Portfolio, error) {
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
	return results[0].(*portfolio.Portfolio), nil
}

func (s *portfolioService) Delete(ctx context.Context, id int) error {
	_, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return nil, s.repo.Delete(ctx, tx, id)
		},
	}, true)
	return err
}
