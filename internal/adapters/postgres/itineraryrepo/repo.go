package itineraryrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres"
	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
)

// Repo is a Postgres implementation of itineraryrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `id, owner_email, destination, days, budget, content, image_url, interests, status, created_at, saved_at`

func (r *Repo) ListByOwner(ctx context.Context, ownerEmail string, limit int) ([]itineraryrepo.Itinerary, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	q := `SELECT ` + selectColumns + ` FROM itineraries WHERE owner_email = $1 ORDER BY saved_at DESC, id ASC`
	args := []any{ownerEmail}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]itineraryrepo.Itinerary, 0)
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItineraryID) (itineraryrepo.Itinerary, error) {
	if r.pool == nil {
		return itineraryrepo.Itinerary{}, postgres.ErrNilPool
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM itineraries WHERE id = $1`, string(id))
	it, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return itineraryrepo.Itinerary{}, itineraryrepo.ErrNotFound
		}
		return itineraryrepo.Itinerary{}, err
	}
	return it, nil
}

func (r *Repo) Save(ctx context.Context, it itineraryrepo.Itinerary) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	if it.ID == "" {
		return itineraryrepo.ErrNotFound
	}
	interests := it.Interests
	if interests == nil {
		interests = []string{}
	}

	// The conditional update leaves rows owned by someone else untouched.
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO itineraries (
			id, owner_email, destination, days, budget, content,
			image_url, interests, status, created_at, saved_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			destination = EXCLUDED.destination,
			days        = EXCLUDED.days,
			budget      = EXCLUDED.budget,
			content     = EXCLUDED.content,
			image_url   = EXCLUDED.image_url,
			interests   = EXCLUDED.interests,
			status      = EXCLUDED.status,
			created_at  = EXCLUDED.created_at,
			saved_at    = EXCLUDED.saved_at
		WHERE itineraries.owner_email = EXCLUDED.owner_email
	`,
		string(it.ID),
		it.OwnerEmail,
		it.Destination,
		it.Days,
		string(it.Budget),
		it.Content,
		it.ImageURL,
		interests,
		string(it.Status),
		it.CreatedAt.UTC(),
		it.SavedAt.UTC(),
	)
	if err != nil {
		if postgres.IsCheckViolation(err) {
			return itineraryrepo.ErrInvalid
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrOwnerMismatch
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerEmail string, id domain.ItineraryID) (bool, error) {
	if r.pool == nil {
		return false, postgres.ErrNilPool
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1 AND owner_email = $2`, string(id), ownerEmail)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanItinerary(row pgx.Row) (itineraryrepo.Itinerary, error) {
	var (
		it        itineraryrepo.Itinerary
		id        string
		budget    string
		status    string
		interests []string
	)
	if err := row.Scan(
		&id,
		&it.OwnerEmail,
		&it.Destination,
		&it.Days,
		&budget,
		&it.Content,
		&it.ImageURL,
		&interests,
		&status,
		&it.CreatedAt,
		&it.SavedAt,
	); err != nil {
		return itineraryrepo.Itinerary{}, err
	}
	it.ID = domain.ItineraryID(id)
	it.Budget = domain.Budget(budget)
	it.Status = domain.ItineraryStatus(status)
	if len(interests) > 0 {
		it.Interests = interests
	}
	it.CreatedAt = it.CreatedAt.UTC()
	it.SavedAt = it.SavedAt.UTC()
	return it, nil
}
