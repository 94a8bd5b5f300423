package clock

import "time"

// Clock provides time to the session core and the backend use-cases.
// Tests substitute a manual implementation for deterministic timestamps.
type Clock interface {
	Now() time.Time
}
