package itest

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/backendclient"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/filestore"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/clock"
	memidentity "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/identity"
	memitineraryrepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/itineraryrepo"
	memlocalcache "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/localcache"
	memprofilerepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/profilerepo"
	pgitineraryrepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres/itineraryrepo"
	pgprofilerepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres/profilerepo"
	postgres_testutil "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres/testutil"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/identitywatcher"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/planner"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/session"
	itineraryrepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
	profilerepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

// scriptedCompleter echoes the prompt's first line so tests can tell requests apart.
type scriptedCompleter struct{}

func (scriptedCompleter) Complete(_ context.Context, _ string, user string) (string, error) {
	first, _, _ := strings.Cut(user, "\n")
	return "PLAN: " + first, nil
}

type testServer struct {
	baseURL string
	clock   *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	var (
		itins    itineraryrepoport.Repository
		profiles profilerepoport.Repository
	)
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		itins = pgitineraryrepo.NewRepo(pool)
		profiles = pgprofilerepo.NewRepo(pool)
	case backendMemory:
		itins = memitineraryrepo.NewRepo()
		profiles = memprofilerepo.NewRepo()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	avatars, err := filestore.NewAvatars(t.TempDir(), "/avatars")
	if err != nil {
		t.Fatalf("NewAvatars: %v", err)
	}
	svc := planner.NewService(itins, profiles, clk, planner.Options{
		Avatars:   avatars,
		Completer: scriptedCompleter{},
	})
	handler := httpapi.NewRouterWithOptions(httpapi.NewServer(svc, nil), httpapi.RouterOptions{
		AvatarHandler: avatars.Handler(),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{baseURL: srv.URL, clock: clk}
}

// client wires the session store to a running server the way cmd/planner does.
type client struct {
	store    *session.Store
	identity *memidentity.Provider
	api      *backendclient.Client
}

func newClient(t *testing.T, srv *testServer) *client {
	t.Helper()

	api, err := backendclient.New(srv.baseURL, backendclient.WithTimeout(10*time.Second))
	if err != nil {
		t.Fatalf("backendclient.New: %v", err)
	}
	idp := memidentity.New(srv.clock)
	store := session.New(session.Deps{
		Cache:       memlocalcache.New(),
		Itineraries: api,
		Generator:   api,
		Answerer:    api,
		Profiles:    api,
		Identity:    idp,
		Clock:       srv.clock,
	})
	w := identitywatcher.New(idp, store, srv.clock, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("watcher start: %v", err)
	}
	t.Cleanup(w.Close)
	return &client{store: store, identity: idp, api: api}
}

// waitFor polls the session snapshot until cond holds.
func waitFor(t *testing.T, s *session.Store, what string, cond func(session.Session) bool) session.Session {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := s.Snapshot()
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot=%+v", what, snap)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
