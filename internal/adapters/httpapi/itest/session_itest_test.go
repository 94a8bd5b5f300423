package itest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/itinerary-planner/internal/app/session"
	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

func TestSessionFlow_GenerateSaveListDeleteSignOut(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)
			c := newClient(t, srv)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			email := "traveler-" + uuid.NewString()[:8] + "@example.com"
			if err := c.store.SignUp(ctx, email, "secret123", "Ada Traveler"); err != nil {
				t.Fatalf("SignUp: %v", err)
			}
			waitFor(t, c.store, "signed-in ready list", func(s session.Session) bool {
				return s.User != nil && s.User.Email == email && s.ListState == session.ListReady
			})
			if got := c.store.Snapshot().Itineraries; len(got) != 0 {
				t.Fatalf("fresh account has itineraries: %+v", got)
			}

			res, err := c.store.Generate(ctx, domain.Preferences{
				Destination: "Kyoto",
				Days:        5,
				Budget:      domain.BudgetModerate,
				Interests:   []string{"temples", "food"},
			})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !res.Saved {
				t.Fatalf("generated itinerary not saved: %v", res.SaveErr)
			}
			if !strings.Contains(res.Itinerary.Content, "5-day trip to Kyoto") {
				t.Fatalf("content=%q", res.Itinerary.Content)
			}
			if res.Itinerary.OwnerEmail != email || res.Itinerary.Status != domain.ItineraryStatusPlanned {
				t.Fatalf("itinerary=%+v", res.Itinerary)
			}

			snap := c.store.Snapshot()
			if len(snap.Itineraries) != 1 || snap.Itineraries[0].ID != res.Itinerary.ID {
				t.Fatalf("session list=%+v", snap.Itineraries)
			}

			// The backend agrees with the session.
			remote, err := c.api.List(ctx, email)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(remote) != 1 || remote[0].ID != res.Itinerary.ID || remote[0].Destination != "Kyoto" {
				t.Fatalf("remote list=%+v", remote)
			}

			got, err := c.store.Lookup(ctx, res.Itinerary.ID)
			if err != nil || got.Days != 5 {
				t.Fatalf("Lookup=%+v err=%v", got, err)
			}

			if err := c.store.DeleteItinerary(ctx, res.Itinerary.ID); err != nil {
				t.Fatalf("DeleteItinerary: %v", err)
			}
			if len(c.store.Snapshot().Itineraries) != 0 {
				t.Fatalf("list not empty after delete")
			}
			remote, err = c.api.List(ctx, email)
			if err != nil || len(remote) != 0 {
				t.Fatalf("remote after delete=%+v err=%v", remote, err)
			}

			if err := c.store.SignOut(ctx); err != nil {
				t.Fatalf("SignOut: %v", err)
			}
			snap = c.store.Snapshot()
			if snap.User != nil || len(snap.Itineraries) != 0 || snap.ListState != session.ListReady {
				t.Fatalf("after sign-out=%+v", snap)
			}
		})
	}
}

func TestSessionFlow_SignInLoadsSavedItineraries(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)
			c := newClient(t, srv)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			email := "returning-" + uuid.NewString()[:8] + "@example.com"
			if err := c.store.SignUp(ctx, email, "secret123", "Grace"); err != nil {
				t.Fatalf("SignUp: %v", err)
			}
			waitFor(t, c.store, "signed in", func(s session.Session) bool {
				return s.User != nil && s.ListState == session.ListReady
			})

			for _, dest := range []string{"Lisbon", "Oaxaca"} {
				srv.clock.Advance(time.Minute)
				if _, err := c.store.SaveItinerary(ctx, domain.Itinerary{
					Destination: dest,
					Days:        3,
					Budget:      domain.BudgetBudget,
					Content:     "Day 1 in " + dest,
					Status:      domain.ItineraryStatusDraft,
				}); err != nil {
					t.Fatalf("SaveItinerary(%s): %v", dest, err)
				}
			}
			if err := c.store.SignOut(ctx); err != nil {
				t.Fatalf("SignOut: %v", err)
			}
			waitFor(t, c.store, "signed out", func(s session.Session) bool { return s.User == nil })

			if err := c.store.SignIn(ctx, email, "secret123"); err != nil {
				t.Fatalf("SignIn: %v", err)
			}
			snap := waitFor(t, c.store, "reloaded list", func(s session.Session) bool {
				return s.User != nil && s.ListState == session.ListReady && len(s.Itineraries) == 2
			})
			if snap.Itineraries[0].Destination != "Oaxaca" || snap.Itineraries[1].Destination != "Lisbon" {
				t.Fatalf("order=%s,%s want Oaxaca,Lisbon", snap.Itineraries[0].Destination, snap.Itineraries[1].Destination)
			}
		})
	}
}

func TestHealthThroughClient(t *testing.T) {
	srv := newTestServer(t, backendMemory)
	c := newClient(t, srv)

	got, err := c.api.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if got.Status != "healthy" {
		t.Fatalf("status=%q", got.Status)
	}
}
