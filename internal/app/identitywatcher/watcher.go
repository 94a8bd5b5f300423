package identitywatcher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/identity"
)

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("identity watcher already started")

// Sink receives normalized identity changes. ApplyIdentity(nil) means signed out;
// Refresh is started after every signed-in identity and runs off the delivery loop.
type Sink interface {
	ApplyIdentity(ctx context.Context, u *domain.User)
	Refresh(ctx context.Context)
}

type event struct {
	profile *identity.Profile
	at      time.Time
}

// Watcher turns provider callbacks into ordered session updates.
//
// Provider events go through a one-slot mailbox: while the sink is busy, a newer
// identity replaces an unconsumed older one, so the sink only ever sees the latest.
type Watcher struct {
	provider identity.Provider
	sink     Sink
	clock    clock.Clock
	log      *slog.Logger

	offerMu sync.Mutex
	mailbox chan event

	mu          sync.Mutex
	started     bool
	unsubscribe func()
	stop        context.CancelFunc
	done        chan struct{}
	closeOnce   sync.Once

	refreshes sync.WaitGroup
}

func New(provider identity.Provider, sink Sink, clk clock.Clock, log *slog.Logger) *Watcher {
	return &Watcher{
		provider: provider,
		sink:     sink,
		clock:    clk,
		log:      logger.OrDefault(log),
		mailbox:  make(chan event, 1),
		done:     make(chan struct{}),
	}
}

// Start registers the single provider subscription and begins delivering events to the sink.
// The loop runs until Close or until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	w.started = true

	runCtx, stop := context.WithCancel(ctx)
	w.stop = stop
	go w.run(runCtx)

	w.unsubscribe = w.provider.Subscribe(w.offer)
	return nil
}

// Close releases the subscription, cancels in-flight refreshes and waits for the
// delivery loop and those refreshes to exit.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		unsubscribe, stop, started := w.unsubscribe, w.stop, w.started
		w.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		if !started {
			return
		}
		stop()
		<-w.done
		w.refreshes.Wait()
	})
}

func (w *Watcher) offer(p *identity.Profile) {
	ev := event{profile: cloneProfile(p), at: w.clock.Now()}

	w.offerMu.Lock()
	defer w.offerMu.Unlock()
	select {
	case <-w.mailbox:
		w.log.Debug("identity event superseded")
	default:
	}
	w.mailbox <- ev
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.mailbox:
			w.deliver(ctx, ev)
		}
	}
}

func (w *Watcher) deliver(ctx context.Context, ev event) {
	u := Normalize(ev.profile, ev.at)
	w.sink.ApplyIdentity(ctx, u)
	if u == nil {
		w.log.Info("identity signed out")
		return
	}
	w.log.Info("identity signed in", slog.String("user_id", string(u.ID)))
	// A pending fetch must not hold back later identity events; the store drops
	// completions that belong to a previous owner.
	w.refreshes.Add(1)
	go func() {
		defer w.refreshes.Done()
		w.sink.Refresh(ctx)
	}()
}

// Normalize converts a provider profile into the session user shape.
// Missing display name and avatar become empty strings; the joined date is the
// provider's creation time when known, else the event time, truncated to the day.
func Normalize(p *identity.Profile, at time.Time) *domain.User {
	if p == nil {
		return nil
	}
	joined := at
	if p.CreatedAt != nil && !p.CreatedAt.IsZero() {
		joined = *p.CreatedAt
	}
	return &domain.User{
		ID:         domain.UserID(p.UID),
		Email:      strings.TrimSpace(p.Email),
		Name:       domain.NormalizeHumanName(p.DisplayName),
		AvatarURL:  strings.TrimSpace(p.PhotoURL),
		JoinedDate: domain.DateOnly(joined),
	}
}

func cloneProfile(p *identity.Profile) *identity.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		cp.CreatedAt = &t
	}
	return &cp
}
