package service

import (
	"context"

	"augustlab-backend/internal/domains/profile"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileService struct {
	repo profile.Repository
	pool *pgxpool.Pool
}

func NewProfileService(repo profile.Repository, pool *pgxpool.Pool) profile.Service {
	return &profileService{repo: repo, pool: pool}
}

func (s *profileService) Get(ctx context.Context) (*profile.Profile, error) {
	return s.repo.Get(ctx)
}

func (s *profileService) Update(ctx context.Context, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err.Error(), "")
	}
	if field, err := req.Normalize(); err != nil {
		return nil, apierror.Validation(err.Error(), field)
	}

	results, err := database.RunBatch(ctx, s.pool, []database.BatchOp{
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return s.repo.Upsert(ctx, tx, req)
		},
	}, true)
	if err != nil {
		return nil, err
	}
	return results[0].(*profile.Profile), nil
}
