package itineraryrepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// Itinerary is the persistence shape used by the itinerary repository.
// SavedAt is the time of the last whole-record save and drives list order.
type Itinerary struct {
	domain.Itinerary
	SavedAt time.Time
}

// Repository provides access to persisted itineraries.
//
// Result ordering expectations:
// - ListByOwner returns the most recently saved first (SavedAt desc, then ID asc for ties).
type Repository interface {
	ListByOwner(ctx context.Context, ownerEmail string, limit int) ([]Itinerary, error)
	GetByID(ctx context.Context, id domain.ItineraryID) (Itinerary, error)

	// Save inserts or replaces the whole record. Replacing a record owned by a
	// different email fails with ErrOwnerMismatch.
	Save(ctx context.Context, it Itinerary) error

	// Delete removes the owner's record and reports whether anything was removed.
	Delete(ctx context.Context, ownerEmail string, id domain.ItineraryID) (bool, error)
}
