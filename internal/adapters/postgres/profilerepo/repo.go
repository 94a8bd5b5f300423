package profilerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
)

// Repo is a Postgres implementation of profilerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Get(ctx context.Context, email string) (profilerepo.Profile, error) {
	if r.pool == nil {
		return profilerepo.Profile{}, postgres.ErrNilPool
	}
	var p profilerepo.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT email, name, avatar_url, updated_at
		FROM profiles
		WHERE email = $1
	`, email).Scan(&p.Email, &p.Name, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profilerepo.Profile{}, profilerepo.ErrNotFound
		}
		return profilerepo.Profile{}, err
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *Repo) SetName(ctx context.Context, email, name string, at time.Time) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (email, name, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	`, email, name, at.UTC())
	return err
}

func (r *Repo) SetAvatarURL(ctx context.Context, email, url string, at time.Time) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (email, avatar_url, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET avatar_url = EXCLUDED.avatar_url, updated_at = EXCLUDED.updated_at
	`, email, url, at.UTC())
	return err
}
