package profilerepo

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no profile is stored for the email.
var ErrNotFound = errors.New("profile not found")

// Profile is the server-side profile keyed by email.
type Profile struct {
	Email     string
	Name      string
	AvatarURL string
	UpdatedAt time.Time
}

// Repository persists profiles. The Set* methods create the profile when missing
// and leave the other fields untouched.
type Repository interface {
	Get(ctx context.Context, email string) (Profile, error)
	SetName(ctx context.Context, email, name string, at time.Time) error
	SetAvatarURL(ctx context.Context, email, url string, at time.Time) error
}
