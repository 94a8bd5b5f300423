package itineraryapi

import (
	"context"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// API is the remote itinerary store.
//
// Failures are *errors.Error values of kind Transport or Rejected; a Rejected
// message is the backend's reason, verbatim.
type API interface {
	// List returns the owner's itineraries most-recent-first.
	List(ctx context.Context, ownerEmail string) ([]domain.Itinerary, error)
	// Save sends the full record and returns the stored (possibly id-normalized) record.
	Save(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	// Delete succeeds when the id is absent.
	Delete(ctx context.Context, ownerEmail string, id domain.ItineraryID) error
}
