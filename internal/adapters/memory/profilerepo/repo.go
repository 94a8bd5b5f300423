package profilerepo

import (
	"context"
	"sync"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	byEmail map[string]profilerepo.Profile
}

func NewRepo() *Repo {
	return &Repo{byEmail: make(map[string]profilerepo.Profile)}
}

func (r *Repo) Get(ctx context.Context, email string) (profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byEmail[email]
	if !ok {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) SetName(ctx context.Context, email, name string, at time.Time) error {
	_ = ctx
	r.update(email, at, func(p *profilerepo.Profile) { p.Name = name })
	return nil
}

func (r *Repo) SetAvatarURL(ctx context.Context, email, url string, at time.Time) error {
	_ = ctx
	r.update(email, at, func(p *profilerepo.Profile) { p.AvatarURL = url })
	return nil
}

func (r *Repo) update(email string, at time.Time, fn func(*profilerepo.Profile)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byEmail[email]
	if !ok {
		p = profilerepo.Profile{Email: email}
	}
	fn(&p)
	p.UpdatedAt = at.UTC()
	r.byEmail[email] = p
}
