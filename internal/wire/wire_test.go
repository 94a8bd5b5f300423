package wire

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

func TestItinerary_ImageURLNullWhenUnset(t *testing.T) {
	t.Parallel()

	it := domain.Itinerary{
		ID:          "it-1",
		OwnerEmail:  "ada@example.com",
		Destination: "Kyoto",
		Days:        5,
		Budget:      domain.BudgetModerate,
		Content:     "Day 1",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:      domain.ItineraryStatusPlanned,
	}
	b, err := json.Marshal(SaveItineraryRequest{Itinerary: ItineraryFromDomain(it)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"imageUrl":null`, `"email":"ada@example.com"`, `"interests":[]`, `"status":"planned"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("body %s missing %s", s, want)
		}
	}
}

func TestItinerary_DecodeImageURL(t *testing.T) {
	t.Parallel()

	var got Itinerary
	body := `{"id":"x","email":"a@b.co","destination":"Lisbon","days":2,"budget":"luxury","content":"c","imageUrl":"https://img/x.jpg","interests":["food"],"createdAt":"2026-01-02T03:04:05Z","status":"planned"}`
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d := got.ToDomain()
	if d.ImageURL == nil || *d.ImageURL != "https://img/x.jpg" {
		t.Fatalf("ImageURL=%v, want https://img/x.jpg", d.ImageURL)
	}
	if d.OwnerEmail != "a@b.co" || d.Budget != domain.BudgetLuxury {
		t.Fatalf("unexpected itinerary: %+v", d)
	}

	var nulled Itinerary
	if err := json.Unmarshal([]byte(strings.Replace(body, `"https://img/x.jpg"`, "null", 1)), &nulled); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if nulled.ToDomain().ImageURL != nil {
		t.Fatalf("expected nil ImageURL for null")
	}
}

func TestEnvelope_FailOmitsDetailsUnlessSet(t *testing.T) {
	t.Parallel()

	b, _ := json.Marshal(Fail("quota exceeded"))
	if string(b) != `{"success":false,"error":"quota exceeded"}` {
		t.Fatalf("got %s", b)
	}
	b, _ = json.Marshal(FailWithDetails("Failed to generate itinerary", "upstream timeout"))
	if !strings.Contains(string(b), `"details":"upstream timeout"`) {
		t.Fatalf("got %s", b)
	}
}

func TestUser_RoundTripKeepsDateOnly(t *testing.T) {
	t.Parallel()

	u := domain.User{ID: "u1", Email: "ada@example.com", Name: "Ada", JoinedDate: time.Date(2025, 7, 9, 18, 30, 0, 0, time.UTC)}
	b, err := json.Marshal(UserFromDomain(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"joinedDate":"2025-07-09"`) {
		t.Fatalf("got %s", b)
	}
	var back User
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := back.ToDomain()
	if !got.JoinedDate.Equal(time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("JoinedDate=%v", got.JoinedDate)
	}
	if got.AvatarURL != "" || got.Name != "Ada" {
		t.Fatalf("unexpected user: %+v", got)
	}
}
