package profile

import "context"

type Service interface {
	Get(ctx context.Context) (*Profile, error)
	Update(ctx context.Context, req *UpdateProfileRequest) (*Profile, error)
}
