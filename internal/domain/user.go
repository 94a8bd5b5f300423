package domain

import "time"

// User is the signed-in session user.
//
// Email is the stable key for itinerary ownership; everything else is display data.
// Name and AvatarURL are never nil-like: missing values are the empty string.
type User struct {
	ID         UserID
	Email      string
	Name       string
	AvatarURL  string
	JoinedDate time.Time // date-only semantics
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
