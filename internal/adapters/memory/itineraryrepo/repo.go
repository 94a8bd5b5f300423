package itineraryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
)

// Repo is an in-memory implementation of itineraryrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ItineraryID]itineraryrepo.Itinerary
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ItineraryID]itineraryrepo.Itinerary),
	}
}

func (r *Repo) ListByOwner(ctx context.Context, ownerEmail string, limit int) ([]itineraryrepo.Itinerary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]itineraryrepo.Itinerary, 0)
	for _, it := range r.byID {
		if it.OwnerEmail == ownerEmail {
			out = append(out, cloneItinerary(it))
		}
	}
	sortBySavedAtDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItineraryID) (itineraryrepo.Itinerary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.byID[id]
	if !ok {
		return itineraryrepo.Itinerary{}, itineraryrepo.ErrNotFound
	}
	return cloneItinerary(it), nil
}

func (r *Repo) Save(ctx context.Context, it itineraryrepo.Itinerary) error {
	_ = ctx
	if it.ID == "" {
		return itineraryrepo.ErrNotFound
	}
	if !it.Budget.Valid() || !it.Status.Valid() {
		return itineraryrepo.ErrInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[it.ID]; ok && existing.OwnerEmail != it.OwnerEmail {
		return itineraryrepo.ErrOwnerMismatch
	}
	r.byID[it.ID] = cloneItinerary(it)
	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerEmail string, id domain.ItineraryID) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok || existing.OwnerEmail != ownerEmail {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func cloneItinerary(it itineraryrepo.Itinerary) itineraryrepo.Itinerary {
	return itineraryrepo.Itinerary{Itinerary: it.Itinerary.Clone(), SavedAt: it.SavedAt}
}

func sortBySavedAtDesc(its []itineraryrepo.Itinerary) {
	sort.Slice(its, func(i, j int) bool {
		a, b := its[i], its[j]
		if !a.SavedAt.Equal(b.SavedAt) {
			return a.SavedAt.After(b.SavedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}
