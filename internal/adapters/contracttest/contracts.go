package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	itineraryrepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
	profilerepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
)

type CleanupFunc = func()

type ItineraryRepoFactory func(t *testing.T) (itineraryrepoport.Repository, CleanupFunc)
type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)

func RunItineraryRepo(t *testing.T, newRepo ItineraryRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Owners are unique per run so shared databases don't leak rows between runs.
	owner := uuid.NewString() + "@example.com"
	other := uuid.NewString() + "@example.com"
	base := time.Unix(3000, 0).UTC()
	img := "https://images.example.com/kyoto.jpg"

	kyoto := itineraryrepoport.Itinerary{
		Itinerary: domain.Itinerary{
			ID:          domain.ItineraryID(uuid.NewString()),
			OwnerEmail:  owner,
			Destination: "Kyoto",
			Days:        5,
			Budget:      domain.BudgetModerate,
			Content:     "Day 1: Fushimi Inari",
			ImageURL:    &img,
			Interests:   []string{"temples", "food"},
			CreatedAt:   base,
			Status:      domain.ItineraryStatusPlanned,
		},
		SavedAt: base,
	}
	if err := repo.Save(ctx, kyoto); err != nil {
		t.Fatalf("Save kyoto: %v", err)
	}
	got, err := repo.GetByID(ctx, kyoto.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Destination != "Kyoto" || got.Days != 5 || got.Budget != domain.BudgetModerate || got.Status != domain.ItineraryStatusPlanned {
		t.Fatalf("unexpected itinerary: %#v", got)
	}
	if got.ImageURL == nil || *got.ImageURL != img {
		t.Fatalf("ImageURL=%v, want %q", got.ImageURL, img)
	}
	if len(got.Interests) != 2 || got.Interests[0] != "temples" {
		t.Fatalf("Interests=%v, want [temples food]", got.Interests)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("CreatedAt=%v, want %v", got.CreatedAt, base)
	}

	if _, err := repo.GetByID(ctx, domain.ItineraryID(uuid.NewString())); !errors.Is(err, itineraryrepoport.ErrNotFound) {
		t.Fatalf("GetByID(missing) err=%v, want %v", err, itineraryrepoport.ErrNotFound)
	}

	// A later save lists first; a null image round-trips as nil.
	lisbon := itineraryrepoport.Itinerary{
		Itinerary: domain.Itinerary{
			ID:          domain.ItineraryID(uuid.NewString()),
			OwnerEmail:  owner,
			Destination: "Lisbon",
			Days:        3,
			Budget:      domain.BudgetBudget,
			Content:     "Day 1: Alfama",
			CreatedAt:   base.Add(time.Minute),
			Status:      domain.ItineraryStatusDraft,
		},
		SavedAt: base.Add(time.Minute),
	}
	if err := repo.Save(ctx, lisbon); err != nil {
		t.Fatalf("Save lisbon: %v", err)
	}
	list, err := repo.ListByOwner(ctx, owner, 20)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 || list[0].ID != lisbon.ID || list[1].ID != kyoto.ID {
		t.Fatalf("unexpected ordering: %#v", list)
	}
	if list[0].ImageURL != nil {
		t.Fatalf("ImageURL=%v, want nil", list[0].ImageURL)
	}

	// Whole-record replace moves the record to the head.
	kyoto.Content = "Day 1: Kinkaku-ji"
	kyoto.SavedAt = base.Add(2 * time.Minute)
	if err := repo.Save(ctx, kyoto); err != nil {
		t.Fatalf("Save kyoto again: %v", err)
	}
	list, err = repo.ListByOwner(ctx, owner, 1)
	if err != nil {
		t.Fatalf("ListByOwner(limit=1): %v", err)
	}
	if len(list) != 1 || list[0].ID != kyoto.ID || list[0].Content != "Day 1: Kinkaku-ji" {
		t.Fatalf("unexpected head after replace: %#v", list)
	}

	// Another owner cannot take over an id.
	stolen := kyoto
	stolen.OwnerEmail = other
	if err := repo.Save(ctx, stolen); !errors.Is(err, itineraryrepoport.ErrOwnerMismatch) {
		t.Fatalf("Save(other owner) err=%v, want %v", err, itineraryrepoport.ErrOwnerMismatch)
	}
	if ok, err := repo.Delete(ctx, other, kyoto.ID); err != nil || ok {
		t.Fatalf("Delete(other owner)=%v err=%v, want false", ok, err)
	}
	list, err = repo.ListByOwner(ctx, other, 20)
	if err != nil || len(list) != 0 {
		t.Fatalf("ListByOwner(other)=%#v err=%v, want empty", list, err)
	}

	bogus := lisbon
	bogus.ID = domain.ItineraryID(uuid.NewString())
	bogus.Budget = domain.Budget("lavish")
	if err := repo.Save(ctx, bogus); !errors.Is(err, itineraryrepoport.ErrInvalid) {
		t.Fatalf("Save(bad budget) err=%v, want %v", err, itineraryrepoport.ErrInvalid)
	}

	// Delete is idempotent.
	ok, err := repo.Delete(ctx, owner, kyoto.ID)
	if err != nil || !ok {
		t.Fatalf("Delete=%v err=%v, want true", ok, err)
	}
	ok, err = repo.Delete(ctx, owner, kyoto.ID)
	if err != nil || ok {
		t.Fatalf("Delete again=%v err=%v, want false", ok, err)
	}
	list, err = repo.ListByOwner(ctx, owner, 20)
	if err != nil {
		t.Fatalf("ListByOwner after delete: %v", err)
	}
	if len(list) != 1 || list[0].ID != lisbon.ID {
		t.Fatalf("unexpected list after delete: %#v", list)
	}
}

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	email := uuid.NewString() + "@example.com"
	now := time.Unix(4000, 0).UTC()

	if _, err := repo.Get(ctx, email); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("Get(missing) err=%v, want %v", err, profilerepoport.ErrNotFound)
	}

	if err := repo.SetName(ctx, email, "Ada Lovelace", now); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if err := repo.SetAvatarURL(ctx, email, "/avatars/a.png", now.Add(time.Second)); err != nil {
		t.Fatalf("SetAvatarURL: %v", err)
	}
	got, err := repo.Get(ctx, email)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email != email || got.Name != "Ada Lovelace" || got.AvatarURL != "/avatars/a.png" {
		t.Fatalf("unexpected profile: %#v", got)
	}
	if !got.UpdatedAt.Equal(now.Add(time.Second)) {
		t.Fatalf("UpdatedAt=%v, want %v", got.UpdatedAt, now.Add(time.Second))
	}

	// Renaming keeps the avatar.
	if err := repo.SetName(ctx, email, "Ada King", now.Add(2*time.Second)); err != nil {
		t.Fatalf("SetName again: %v", err)
	}
	got, err = repo.Get(ctx, email)
	if err != nil {
		t.Fatalf("Get after rename: %v", err)
	}
	if got.Name != "Ada King" || got.AvatarURL != "/avatars/a.png" {
		t.Fatalf("unexpected profile after rename: %#v", got)
	}
}
