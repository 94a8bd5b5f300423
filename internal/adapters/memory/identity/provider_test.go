package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/identity"
)

func codeOf(err error) identity.Code {
	var e *identity.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func TestProvider_SignUpSignInSignOut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := New(memclock.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	var got []*identity.Profile
	cancel := p.Subscribe(func(pr *identity.Profile) { got = append(got, pr) })
	defer cancel()
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected immediate signed-out delivery, got %v", got)
	}

	if err := p.SignUp(ctx, "ada@example.com", "123", "Ada"); codeOf(err) != identity.CodeWeakPassword {
		t.Fatalf("err=%v, want weak-password", err)
	}
	if err := p.SignUp(ctx, "not-an-email", "secret1", "Ada"); codeOf(err) != identity.CodeInvalidEmail {
		t.Fatalf("err=%v, want invalid-email", err)
	}
	if err := p.SignUp(ctx, "Ada@Example.com", "secret1", "Ada"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := p.SignUp(ctx, "ada@example.com", "secret1", "Ada"); codeOf(err) != identity.CodeEmailAlreadyInUse {
		t.Fatalf("err=%v, want email-already-in-use", err)
	}
	if len(got) != 2 || got[1] == nil || got[1].Email != "ada@example.com" || got[1].DisplayName != "Ada" {
		t.Fatalf("unexpected deliveries: %v", got)
	}

	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if err := p.SignIn(ctx, "ada@example.com", "wrong"); codeOf(err) != identity.CodeWrongPassword {
		t.Fatalf("err=%v, want wrong-password", err)
	}
	if err := p.SignIn(ctx, "bob@example.com", "secret1"); codeOf(err) != identity.CodeUserNotFound {
		t.Fatalf("err=%v, want user-not-found", err)
	}
	if err := p.SignIn(ctx, "ada@example.com", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if last := got[len(got)-1]; last == nil || last.Email != "ada@example.com" {
		t.Fatalf("last delivery=%v, want signed in", last)
	}
}

func TestProvider_ExpireAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := New(memclock.NewManualClock(time.Unix(0, 0)))
	if err := p.SignUp(ctx, "ada@example.com", "secret1", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	var last *identity.Profile
	seen := 0
	p.Subscribe(func(pr *identity.Profile) { last = pr; seen++ })
	p.ExpireSession()
	if seen != 2 || last != nil {
		t.Fatalf("seen=%d last=%v, want signed-out delivery", seen, last)
	}

	if err := p.SendPasswordReset(ctx, "nobody@example.com"); codeOf(err) != identity.CodeUserNotFound {
		t.Fatalf("err=%v, want user-not-found", err)
	}
	if err := p.SendPasswordReset(ctx, "ada@example.com"); err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}
	if r := p.ResetRequests(); len(r) != 1 || r[0] != "ada@example.com" {
		t.Fatalf("resets=%v", r)
	}

	p.SetOffline(true)
	if err := p.SignIn(ctx, "ada@example.com", "secret1"); codeOf(err) != identity.CodeNetworkFailed {
		t.Fatalf("err=%v, want network failure", err)
	}
}
