package itineraryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
)

func TestRepo_ReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	img := "https://img/x.jpg"
	it := itineraryrepo.Itinerary{
		Itinerary: domain.Itinerary{
			ID:         "i1",
			OwnerEmail: "a@example.com",
			Budget:     domain.BudgetLuxury,
			ImageURL:   &img,
			Interests:  []string{"food"},
			Status:     domain.ItineraryStatusPlanned,
		},
		SavedAt: time.Unix(10, 0).UTC(),
	}
	if err := r.Save(context.Background(), it); err != nil {
		t.Fatalf("Save() err=%v", err)
	}

	got, err := r.GetByID(context.Background(), "i1")
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	got.Interests[0] = "mutated"
	*got.ImageURL = "mutated"

	again, _ := r.GetByID(context.Background(), "i1")
	if again.Interests[0] != "food" || *again.ImageURL != img {
		t.Fatalf("stored itinerary was aliased: %#v", again)
	}
}

func TestRepo_SaveRejectsEmptyID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Save(context.Background(), itineraryrepo.Itinerary{}); err != itineraryrepo.ErrNotFound {
		t.Fatalf("Save() err=%v, want %v", err, itineraryrepo.ErrNotFound)
	}
}

func TestRepo_ListTieBreaksByID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	at := time.Unix(10, 0).UTC()
	for _, id := range []domain.ItineraryID{"b", "a", "c"} {
		if err := r.Save(context.Background(), itineraryrepo.Itinerary{
			Itinerary: domain.Itinerary{
				ID:         id,
				OwnerEmail: "o@example.com",
				Budget:     domain.BudgetBudget,
				Status:     domain.ItineraryStatusDraft,
			},
			SavedAt:   at,
		}); err != nil {
			t.Fatalf("Save(%s) err=%v", id, err)
		}
	}
	got, err := r.ListByOwner(context.Background(), "o@example.com", 0)
	if err != nil {
		t.Fatalf("ListByOwner() err=%v", err)
	}
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("ListByOwner()=%v, want a,b,c", got)
	}
}
