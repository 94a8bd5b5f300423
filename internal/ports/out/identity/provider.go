package identity

import (
	"context"
	"time"
)

// Profile is what the identity provider reports for a signed-in user.
// DisplayName and PhotoURL may be empty; CreatedAt is nil when the provider does not expose it.
type Profile struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	CreatedAt   *time.Time
}

// Listener receives the current identity on every change. nil means signed out.
type Listener func(p *Profile)

// Provider is the external identity service boundary.
//
// Subscribe must deliver the current state to fn promptly after registration and then
// once per change. Provider-level failures (e.g. a token refresh that cannot reach the
// network) are delivered as a nil profile, not as errors.
//
// The imperative operations return *Error values carrying a provider Code on failure.
// Successful sign-in/sign-up/sign-out are observed through the subscription.
type Provider interface {
	Subscribe(fn Listener) (cancel func())

	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, displayName string) error
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
}
