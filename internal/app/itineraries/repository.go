package itineraries

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryapi"
)

// Repository is the remote-backed itinerary collection of one owner.
// It holds no list state of its own; the session store applies results.
type Repository struct {
	api itineraryapi.API
}

func NewRepository(api itineraryapi.API) *Repository {
	return &Repository{api: api}
}

// Fetch returns the owner's itineraries most-recent-first, capped at MaxRecentItineraries.
func (r *Repository) Fetch(ctx context.Context, ownerEmail string) ([]domain.Itinerary, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return nil, apperrors.NotAuthenticated()
	}
	list, err := r.api.List(ctx, ownerEmail)
	if err != nil {
		return nil, classify(err)
	}
	return truncate(domain.CloneItineraries(list), domain.MaxRecentItineraries), nil
}

// Save sends the full record. The returned record is the server's copy; an id or
// owner the server left blank is filled from the submitted record.
func (r *Repository) Save(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	if strings.TrimSpace(it.OwnerEmail) == "" {
		return domain.Itinerary{}, apperrors.NotAuthenticated()
	}
	saved, err := r.api.Save(ctx, it.Clone())
	if err != nil {
		return domain.Itinerary{}, classify(err)
	}
	if saved.ID == "" {
		saved.ID = it.ID
	}
	if saved.OwnerEmail == "" {
		saved.OwnerEmail = it.OwnerEmail
	}
	return saved.Clone(), nil
}

func (r *Repository) Delete(ctx context.Context, ownerEmail string, id domain.ItineraryID) error {
	if strings.TrimSpace(ownerEmail) == "" {
		return apperrors.NotAuthenticated()
	}
	if id == "" {
		return apperrors.Validation("Itinerary id is required")
	}
	if err := r.api.Delete(ctx, ownerEmail, id); err != nil {
		return classify(err)
	}
	return nil
}

// classify makes sure every failure leaving the repository is an *apperrors.Error.
func classify(err error) error {
	var e *apperrors.Error
	if apperrors.As(err, &e) {
		return err
	}
	return apperrors.Transport(err)
}

// Prepend puts it at the head of list, dropping any older entry with the same id,
// and keeps at most limit entries. list is not modified.
func Prepend(list []domain.Itinerary, it domain.Itinerary, limit int) []domain.Itinerary {
	rest := lo.Reject(list, func(x domain.Itinerary, _ int) bool { return x.ID == it.ID })
	out := make([]domain.Itinerary, 0, len(rest)+1)
	out = append(out, it.Clone())
	out = append(out, domain.CloneItineraries(rest)...)
	return truncate(out, limit)
}

// Remove drops the entry with id. It reports whether an entry was removed.
func Remove(list []domain.Itinerary, id domain.ItineraryID) ([]domain.Itinerary, bool) {
	_, idx, found := lo.FindIndexOf(list, func(x domain.Itinerary) bool { return x.ID == id })
	if !found {
		return list, false
	}
	out := make([]domain.Itinerary, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, true
}

func Find(list []domain.Itinerary, id domain.ItineraryID) (domain.Itinerary, bool) {
	it, ok := lo.Find(list, func(x domain.Itinerary) bool { return x.ID == id })
	if !ok {
		return domain.Itinerary{}, false
	}
	return it.Clone(), true
}

func truncate(list []domain.Itinerary, limit int) []domain.Itinerary {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
