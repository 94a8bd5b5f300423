package clock

import "time"

// SystemClock reads the wall clock in UTC. Itinerary createdAt values and
// joined dates are derived from it.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
