package localcache

import (
	"context"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// Key is the well-known storage key of the cached session user.
const Key = "travel_user"

// Cache is a durable client-local mirror of the session user.
//
// Load reports ok=false when nothing is cached; absence is never an error.
// A corrupt entry is reported as ok=false as well, so bootstrap never fails on it.
type Cache interface {
	Load(ctx context.Context) (u domain.User, ok bool, err error)
	Store(ctx context.Context, u domain.User) error
	Clear(ctx context.Context) error
}
