package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Overland-East-Bay/itinerary-planner/internal/app/generation"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/itineraries"
	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/validation"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/generator"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/identity"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryapi"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/localcache"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profileapi"
)

// ListState tracks the two-phase load of the itinerary list.
type ListState int

const (
	ListNotLoaded ListState = iota
	ListLoading
	ListReady
)

func (s ListState) String() string {
	switch s {
	case ListNotLoaded:
		return "not_loaded"
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Pending counts in-flight operations per kind.
type Pending struct {
	Fetch    int
	Save     int
	Delete   int
	Generate int
	Profile  int
}

// Session is an immutable snapshot of the store.
//
// Itineraries is most-recent-first and is empty whenever User is nil.
// Loading is true only until the first identity event arrives.
type Session struct {
	User        *domain.User
	Itineraries []domain.Itinerary
	Loading     bool
	ListState   ListState
	Pending     Pending
}

// Observer is notified after state changes and about non-fatal warnings.
// Calls happen outside the store lock, one at a time. An observer may read the
// store but must not call its mutating methods synchronously.
type Observer interface {
	SessionChanged(Session)
	Warning(error)
}

type Deps struct {
	Cache       localcache.Cache
	Itineraries itineraryapi.API
	Generator   generator.Generator
	Answerer    generator.Answerer
	Profiles    profileapi.API
	Identity    identity.Provider
	Clock       clock.Clock

	Logger    *slog.Logger
	Validator *validation.Validator
	// NewID mints itinerary ids for generated itineraries; defaults to uuid v4.
	NewID func() string
}

// Store is the authoritative holder of the session user and itinerary list.
// All mutation goes through its methods; network calls never hold the lock.
type Store struct {
	cache    localcache.Cache
	repo     *itineraries.Repository
	gen      *generation.Orchestrator
	answerer generator.Answerer
	profiles profileapi.API
	identity identity.Provider
	log      *slog.Logger

	mu          sync.Mutex
	user        *domain.User
	items       []domain.Itinerary
	loading     bool
	watcherLive bool
	listState   ListState
	readyCh     chan struct{}
	pending     Pending

	// epoch changes whenever the session owner changes; completions issued
	// under an older epoch are never applied.
	epoch uint64

	// ticket is the last issued list-operation ticket. last* hold the ticket of
	// the newest applied completion per mutation type.
	ticket     uint64
	lastFetch  uint64
	lastSave   uint64
	lastDelete uint64
	// listLoaded is set once a fetch has been applied in the current epoch.
	listLoaded bool

	notifyMu  sync.Mutex
	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

func New(deps Deps) *Store {
	s := &Store{
		cache:     deps.Cache,
		repo:      itineraries.NewRepository(deps.Itineraries),
		answerer:  deps.Answerer,
		profiles:  deps.Profiles,
		identity:  deps.Identity,
		log:       logger.OrDefault(deps.Logger),
		loading:   true,
		listState: ListNotLoaded,
		readyCh:   make(chan struct{}),
		observers: make(map[int]Observer),
	}
	s.gen = generation.New(deps.Generator, deps.Clock, generation.Options{
		Validator: deps.Validator,
		Logger:    s.log,
		NewID:     deps.NewID,
		OnChange:  func(generation.Status) { s.notify() },
	})
	return s
}

// Subscribe registers o and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// Snapshot returns a deep copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	out := Session{
		Itineraries: domain.CloneItineraries(s.items),
		Loading:     s.loading,
		ListState:   s.listState,
		Pending:     s.pending,
	}
	if out.Itineraries == nil {
		out.Itineraries = []domain.Itinerary{}
	}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	if s.gen != nil && s.gen.InFlight() {
		out.Pending.Generate = 1
	}
	return out
}

// Lookup returns the itinerary with id once the list has finished loading.
// It blocks while the list is not ready and returns ctx.Err() if ctx ends first.
func (s *Store) Lookup(ctx context.Context, id domain.ItineraryID) (domain.Itinerary, error) {
	if err := s.WaitReady(ctx); err != nil {
		return domain.Itinerary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := itineraries.Find(s.items, id); ok {
		return it, nil
	}
	return domain.Itinerary{}, apperrors.NotFound("Itinerary not found")
}

// WaitReady blocks until the itinerary list is ready.
func (s *Store) WaitReady(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.listState == ListReady {
			s.mu.Unlock()
			return nil
		}
		ch := s.readyCh
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store) setListStateLocked(next ListState) {
	if s.listState == next {
		return
	}
	if s.listState == ListReady {
		s.readyCh = make(chan struct{})
	}
	s.listState = next
	if next == ListReady {
		close(s.readyCh)
	}
}

func (s *Store) nextTicketLocked() uint64 {
	s.ticket++
	return s.ticket
}

// notify delivers the latest snapshot to every observer.
func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	snap := s.Snapshot()
	for _, o := range s.observerList() {
		o.SessionChanged(snap)
	}
}

// warn logs err and forwards it to observers.
func (s *Store) warn(msg string, err error) {
	s.log.Warn(msg, slog.String("error", err.Error()))
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for _, o := range s.observerList() {
		o.Warning(err)
	}
}

func (s *Store) observerList() []Observer {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	out := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if o, ok := s.observers[i]; ok {
			out = append(out, o)
		}
	}
	return out
}
