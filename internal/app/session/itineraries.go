package session

import (
	"context"
	"fmt"

	"github.com/Overland-East-Bay/itinerary-planner/internal/app/generation"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/itineraries"
	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
)

// SaveItinerary persists it for the signed-in user and puts the stored record at
// the head of the list. The owner is always the session user.
func (s *Store) SaveItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return domain.Itinerary{}, apperrors.NotAuthenticated()
	}
	it = it.Clone()
	it.OwnerEmail = s.user.Email
	ticket := s.nextTicketLocked()
	epoch := s.epoch
	s.pending.Save++
	s.mu.Unlock()
	s.notify()

	saved, err := s.repo.Save(ctx, it)

	s.mu.Lock()
	s.pending.Save--
	if err == nil && epoch == s.epoch {
		s.items = itineraries.Prepend(s.items, saved, domain.MaxRecentItineraries)
		if ticket > s.lastSave {
			s.lastSave = ticket
		}
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		return domain.Itinerary{}, err
	}
	return saved, nil
}

// DeleteItinerary removes the itinerary on the backend and then locally.
// Deleting an id that is not in the list succeeds and changes nothing.
func (s *Store) DeleteItinerary(ctx context.Context, id domain.ItineraryID) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return apperrors.NotAuthenticated()
	}
	owner := s.user.Email
	ticket := s.nextTicketLocked()
	epoch := s.epoch
	s.pending.Delete++
	s.mu.Unlock()
	s.notify()

	err := s.repo.Delete(ctx, owner, id)

	s.mu.Lock()
	s.pending.Delete--
	if err == nil && epoch == s.epoch {
		s.items, _ = itineraries.Remove(s.items, id)
		if ticket > s.lastDelete {
			s.lastDelete = ticket
		}
	}
	s.mu.Unlock()
	s.notify()

	return err
}

// Generate runs a generation request and auto-saves the result for the session user.
//
// The result is returned whenever generation succeeded, even if the save failed;
// in that case Result.Saved is false and the save failure is also sent to observers
// as a warning.
func (s *Store) Generate(ctx context.Context, prefs domain.Preferences) (generation.Result, error) {
	res, err := s.gen.Submit(ctx, prefs, s)
	if err != nil {
		return generation.Result{}, err
	}
	if res.SaveErr != nil {
		s.warn("auto-save generated itinerary failed",
			fmt.Errorf("itinerary generated but not saved: %w", res.SaveErr))
	}
	return res, nil
}

// GenerationStatus reports the generation state and the last submitted preferences.
func (s *Store) GenerationStatus() generation.Status {
	return s.gen.Status()
}

// AcknowledgeGeneration returns a finished generation to idle.
func (s *Store) AcknowledgeGeneration() {
	s.gen.Acknowledge()
}

// RetryGeneration resubmits the last preferences.
func (s *Store) RetryGeneration(ctx context.Context) (generation.Result, error) {
	st := s.gen.Status()
	if st.Preferences.Destination == "" {
		return generation.Result{}, apperrors.Validation("Nothing to retry")
	}
	return s.Generate(ctx, st.Preferences)
}
