package identity

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/identity"
)

var _ identity.Provider = (*Provider)(nil)

// MinPasswordLen mirrors the hosted provider's password policy.
const MinPasswordLen = 6

type account struct {
	uid         string
	password    string
	displayName string
	photoURL    string
	createdAt   time.Time
}

// Provider is an in-process identity provider for development and tests.
// Listeners are called synchronously, outside the provider lock.
type Provider struct {
	clock clock.Clock

	mu        sync.Mutex
	accounts  map[string]account
	current   *identity.Profile
	listeners map[int]identity.Listener
	nextID    int
	resets    []string

	// Offline makes every imperative call fail with a network error.
	offline bool
}

func New(clk clock.Clock) *Provider {
	return &Provider{
		clock:     clk,
		accounts:  make(map[string]account),
		listeners: make(map[int]identity.Listener),
	}
}

// Subscribe registers fn and immediately delivers the current identity to it.
func (p *Provider) Subscribe(fn identity.Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	cur := cloneProfile(p.current)
	p.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) error {
	_ = ctx
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	if p.offline {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeNetworkFailed}
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeInvalidEmail}
	}
	if len(password) < MinPasswordLen {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeWeakPassword}
	}
	if _, ok := p.accounts[email]; ok {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeEmailAlreadyInUse}
	}
	acct := account{
		uid:         uuid.NewString(),
		password:    password,
		displayName: displayName,
		createdAt:   p.clock.Now(),
	}
	p.accounts[email] = acct
	p.current = profileOf(email, acct)
	p.mu.Unlock()

	p.publish()
	return nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	_ = ctx
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	if p.offline {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeNetworkFailed}
	}
	if email == "" {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeInvalidEmail}
	}
	acct, ok := p.accounts[email]
	if !ok {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeUserNotFound}
	}
	if acct.password != password {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeWrongPassword}
	}
	p.current = profileOf(email, acct)
	p.mu.Unlock()

	p.publish()
	return nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	_ = ctx
	p.mu.Lock()
	if p.offline {
		p.mu.Unlock()
		return &identity.Error{Code: identity.CodeNetworkFailed}
	}
	p.current = nil
	p.mu.Unlock()

	p.publish()
	return nil
}

func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	_ = ctx
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.offline {
		return &identity.Error{Code: identity.CodeNetworkFailed}
	}
	if _, ok := p.accounts[email]; !ok {
		return &identity.Error{Code: identity.CodeUserNotFound}
	}
	p.resets = append(p.resets, email)
	return nil
}

// ExpireSession drops the current identity the way a failed token refresh does.
func (p *Provider) ExpireSession() {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.publish()
}

// SetOffline toggles simulated network failure for imperative calls.
func (p *Provider) SetOffline(offline bool) {
	p.mu.Lock()
	p.offline = offline
	p.mu.Unlock()
}

// ResetRequests returns the emails a password reset was sent to.
func (p *Provider) ResetRequests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.resets...)
}

func (p *Provider) publish() {
	p.mu.Lock()
	cur := p.current
	ls := make([]identity.Listener, 0, len(p.listeners))
	for i := 0; i < p.nextID; i++ {
		if fn, ok := p.listeners[i]; ok {
			ls = append(ls, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range ls {
		fn(cloneProfile(cur))
	}
}

func profileOf(email string, a account) *identity.Profile {
	created := a.createdAt
	return &identity.Profile{
		UID:         a.uid,
		Email:       email,
		DisplayName: a.displayName,
		PhotoURL:    a.photoURL,
		CreatedAt:   &created,
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
