package itineraries

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
)

type fakeAPI struct {
	calls   int
	list    []domain.Itinerary
	saved   domain.Itinerary
	saveErr error
	listErr error
	delErr  error
}

func (f *fakeAPI) List(_ context.Context, _ string) ([]domain.Itinerary, error) {
	f.calls++
	return f.list, f.listErr
}

func (f *fakeAPI) Save(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	f.calls++
	if f.saveErr != nil {
		return domain.Itinerary{}, f.saveErr
	}
	if f.saved.ID != "" {
		return f.saved, nil
	}
	return it, nil
}

func (f *fakeAPI) Delete(_ context.Context, _ string, _ domain.ItineraryID) error {
	f.calls++
	return f.delErr
}

func itin(id string) domain.Itinerary {
	return domain.Itinerary{ID: domain.ItineraryID(id), OwnerEmail: "ada@example.com", Destination: "D" + id, Days: 1, Budget: domain.BudgetBudget, Status: domain.ItineraryStatusPlanned}
}

func TestSave_RequiresOwnerWithoutNetwork(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	r := NewRepository(api)
	it := itin("a")
	it.OwnerEmail = "  "
	_, err := r.Save(context.Background(), it)
	if !apperrors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("err=%v, want NotAuthenticated", err)
	}
	if err := r.Delete(context.Background(), "", "a"); !apperrors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("delete err=%v, want NotAuthenticated", err)
	}
	if _, err := r.Fetch(context.Background(), ""); !apperrors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("fetch err=%v, want NotAuthenticated", err)
	}
	if api.calls != 0 {
		t.Fatalf("api calls=%d, want 0", api.calls)
	}
}

func TestSave_ReturnsServerRecord(t *testing.T) {
	t.Parallel()

	server := itin("server-id")
	api := &fakeAPI{saved: server}
	got, err := NewRepository(api).Save(context.Background(), itin("local-id"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got.ID != "server-id" {
		t.Fatalf("ID=%q, want server-id", got.ID)
	}
}

func TestSave_ClassifiesUntypedErrorsAsTransport(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{saveErr: errors.New("connection reset")}
	_, err := NewRepository(api).Save(context.Background(), itin("a"))
	if apperrors.KindOf(err) != apperrors.KindTransport {
		t.Fatalf("kind=%s, want TRANSPORT", apperrors.KindOf(err))
	}

	api = &fakeAPI{saveErr: apperrors.Rejected("quota exceeded")}
	_, err = NewRepository(api).Save(context.Background(), itin("a"))
	if apperrors.MessageOf(err) != "quota exceeded" {
		t.Fatalf("message=%q, want quota exceeded", apperrors.MessageOf(err))
	}
}

func TestFetch_TruncatesToRecentLimit(t *testing.T) {
	t.Parallel()

	var list []domain.Itinerary
	for i := 0; i < 25; i++ {
		list = append(list, itin(fmt.Sprint(i)))
	}
	got, err := NewRepository(&fakeAPI{list: list}).Fetch(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != domain.MaxRecentItineraries {
		t.Fatalf("len=%d, want %d", len(got), domain.MaxRecentItineraries)
	}
	if got[0].ID != "0" {
		t.Fatalf("order changed: first=%q", got[0].ID)
	}
}

func TestPrepend(t *testing.T) {
	t.Parallel()

	var list []domain.Itinerary
	for i := 0; i < domain.MaxRecentItineraries; i++ {
		list = append(list, itin(fmt.Sprint(i)))
	}

	got := Prepend(list, itin("new"), domain.MaxRecentItineraries)
	if len(got) != domain.MaxRecentItineraries {
		t.Fatalf("len=%d, want %d", len(got), domain.MaxRecentItineraries)
	}
	if got[0].ID != "new" || got[1].ID != "0" {
		t.Fatalf("head=%q,%q, want new,0", got[0].ID, got[1].ID)
	}
	if got[len(got)-1].ID != fmt.Sprint(domain.MaxRecentItineraries-2) {
		t.Fatalf("tail=%q", got[len(got)-1].ID)
	}
	if len(list) != domain.MaxRecentItineraries || list[0].ID != "0" {
		t.Fatalf("input list was modified")
	}

	// Re-saving an existing id moves it to the head without duplicating it.
	moved := Prepend([]domain.Itinerary{itin("a"), itin("b"), itin("c")}, itin("c"), domain.MaxRecentItineraries)
	if len(moved) != 3 || moved[0].ID != "c" || moved[1].ID != "a" || moved[2].ID != "b" {
		t.Fatalf("moved=%v", ids(moved))
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	list := []domain.Itinerary{itin("a"), itin("b"), itin("c")}
	got, ok := Remove(list, "b")
	if !ok || len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("Remove(b)=%v ok=%v", ids(got), ok)
	}
	got, ok = Remove(list, "zzz")
	if ok || len(got) != 3 {
		t.Fatalf("Remove(absent)=%v ok=%v", ids(got), ok)
	}
	if _, found := Find(list, "c"); !found {
		t.Fatalf("Find(c) not found")
	}
}

func ids(list []domain.Itinerary) []domain.ItineraryID {
	out := make([]domain.ItineraryID, len(list))
	for i, it := range list {
		out[i] = it.ID
	}
	return out
}
