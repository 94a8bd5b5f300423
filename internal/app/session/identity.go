package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/identity"
)

// Bootstrap reads the local cache once and adopts the cached user until the
// identity watcher reports. It does nothing once the watcher is live.
func (s *Store) Bootstrap(ctx context.Context) {
	if s.cache == nil {
		return
	}
	u, ok, err := s.cache.Load(ctx)
	if err != nil {
		s.log.Warn("read cached user failed", slog.String("error", err.Error()))
		return
	}
	if !ok {
		return
	}

	s.mu.Lock()
	if s.watcherLive {
		s.mu.Unlock()
		return
	}
	s.user = &u
	s.mu.Unlock()
	s.notify()
}

// ApplyIdentity replaces the session user with the identity watcher's value.
// nil signs the session out. The previous user, cached or not, is overwritten
// rather than merged. The itinerary list survives only when the owner is unchanged.
// The first event always starts a new epoch, even for the cached owner, so a fetch
// issued during bootstrap is discarded.
func (s *Store) ApplyIdentity(ctx context.Context, u *domain.User) {
	s.mu.Lock()
	first := !s.watcherLive
	s.watcherLive = true
	s.loading = false

	if u == nil {
		s.clearLocked()
	} else {
		next := *u
		if first || s.user == nil || s.user.Email != next.Email {
			s.epoch++
			s.items = nil
			s.listLoaded = false
			s.setListStateLocked(ListNotLoaded)
		}
		s.user = &next
	}
	warn := s.commitUserLocked(ctx)
	s.mu.Unlock()

	s.notify()
	if warn != nil {
		s.warn("write cached user failed", warn)
	}
}

// Refresh fetches the current user's itineraries. Failures are logged and leave
// the loaded list untouched; a completion that was overtaken by a newer list
// mutation or by an owner change is dropped. When the dropped completion was the
// first load for the current owner, the fetch is issued again so the list never
// turns ready without the server's records.
func (s *Store) Refresh(ctx context.Context) {
	for s.fetchOnce(ctx) {
		if ctx.Err() != nil {
			return
		}
	}
}

// fetchOnce runs one fetch and reports whether it must be retried.
func (s *Store) fetchOnce(ctx context.Context) (retry bool) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return false
	}
	owner := s.user.Email
	ticket := s.nextTicketLocked()
	epoch := s.epoch
	s.pending.Fetch++
	if s.listState != ListReady {
		s.setListStateLocked(ListLoading)
	}
	s.mu.Unlock()
	s.notify()

	list, err := s.repo.Fetch(ctx, owner)

	s.mu.Lock()
	s.pending.Fetch--
	current := epoch == s.epoch
	stale := !current || ticket < s.lastFetch || ticket < s.lastSave || ticket < s.lastDelete
	if err == nil && !stale {
		s.items = list
		s.lastFetch = ticket
		s.listLoaded = true
	}
	retry = err == nil && stale && current && !s.listLoaded
	if current && !retry && s.listState == ListLoading && s.pending.Fetch == 0 {
		s.setListStateLocked(ListReady)
	}
	s.mu.Unlock()
	s.notify()

	switch {
	case err != nil:
		s.log.Warn("fetch itineraries failed", slog.String("owner", owner), slog.String("error", err.Error()))
	case retry:
		s.log.Debug("first itinerary fetch overtaken; fetching again", slog.String("owner", owner), slog.Uint64("ticket", ticket))
	case stale:
		s.log.Debug("dropped stale itinerary fetch", slog.String("owner", owner), slog.Uint64("ticket", ticket))
	}
	return retry
}

// SignIn asks the provider to sign in. The new identity arrives through the watcher.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	if err := s.identity.SignIn(ctx, strings.TrimSpace(email), password); err != nil {
		return authError(err, identity.Message(err))
	}
	return nil
}

func (s *Store) SignUp(ctx context.Context, email, password, name string) error {
	if err := s.identity.SignUp(ctx, strings.TrimSpace(email), password, domain.NormalizeHumanName(name)); err != nil {
		return authError(err, identity.Message(err))
	}
	return nil
}

// SignOut clears the local session even when the provider call fails.
func (s *Store) SignOut(ctx context.Context) error {
	perr := s.identity.SignOut(ctx)

	s.mu.Lock()
	s.clearLocked()
	warn := s.commitUserLocked(ctx)
	s.mu.Unlock()

	s.notify()
	if warn != nil {
		s.warn("clear cached user failed", warn)
	}
	if perr != nil {
		return authError(perr, identity.Message(perr))
	}
	return nil
}

// SendPasswordReset returns the confirmation text to show on success.
func (s *Store) SendPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperrors.Validation(identity.MsgResetNeedsEmail)
	}
	if err := s.identity.SendPasswordReset(ctx, email); err != nil {
		return "", authError(err, identity.ResetMessage(err))
	}
	return identity.MsgResetSent, nil
}

func (s *Store) clearLocked() {
	if s.user != nil || len(s.items) > 0 {
		s.epoch++
	}
	s.user = nil
	s.items = nil
	s.listLoaded = false
	// Nothing to load while signed out; lookups resolve immediately.
	s.setListStateLocked(ListReady)
}

// commitUserLocked writes the current user through to the local cache. A failed
// write is returned as a StorageFull warning and never rolls back the state.
func (s *Store) commitUserLocked(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	var err error
	if s.user == nil {
		err = s.cache.Clear(ctx)
	} else {
		err = s.cache.Store(ctx, *s.user)
	}
	if err != nil {
		return apperrors.StorageFull(err)
	}
	return nil
}

func authError(err error, msg string) error {
	var ie *identity.Error
	if apperrors.As(err, &ie) && ie.Code == identity.CodeNetworkFailed {
		return apperrors.Transport(err)
	}
	return apperrors.Rejected(msg).WithCause(err)
}
