package profile

import (
	"context"

	"augustlab-backend/internal/shared"
)

// Repository persists the singleton profile row.
type Repository interface {
	Get(ctx context.Context) (*Profile, error)
	Upsert(ctx context.Context, db shared.Querier, req *UpdateProfileRequest) (*Profile, error)
}
