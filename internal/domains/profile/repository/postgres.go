package repository

import (
	"context"
	"errors"
	"fmt"

	"augustlab-backend/internal/domains/profile"
	"augustlab-backend/internal/shared"
	"augustlab-backend/internal/shared/jsonutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) profile.Repository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, name, title, bio, avatar_url, email, github_url,
	linkedin_url, twitter_url, skills, updated_at`

func (r *profileRepository) Get(ctx context.Context) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile WHERE id = 1`
	p, err := scanProfile(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, db shared.Querier, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	skills, err := jsonutil.MarshalValue(req.Skills)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO profile (id, name, title, bio, avatar_url, email,
			github_url, linkedin_url, twitter_url, skills)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			email = EXCLUDED.email,
			github_url = EXCLUDED.github_url,
			linkedin_url = EXCLUDED.linkedin_url,
			twitter_url = EXCLUDED.twitter_url,
			skills = EXCLUDED.skills,
			updated_at = NOW()
		RETURNING ` + profileColumns

	p, err := scanProfile(db.QueryRow(ctx, query,
		req.Name, req.Title, req.Bio, req.AvatarURL, req.Email,
		req.GithubURL, req.LinkedinURL, req.TwitterURL, skills))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p      profile.Profile
		skills []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Title, &p.Bio, &p.AvatarURL, &p.Email,
		&p.GithubURL, &p.LinkedinURL, &p.TwitterURL, &skills, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := jsonutil.UnmarshalSlice(skills, &p.Skills); err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []profile.Skill{}
	}
	return &p, nil
}
