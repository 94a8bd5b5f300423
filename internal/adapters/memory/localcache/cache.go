package localcache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/localcache"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

var _ localcache.Cache = (*Cache)(nil)

// Cache is an in-memory localcache.Cache. It stores the same serialized form as
// the durable cache so corrupt entries and write failures can be simulated.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	raw      map[string][]byte
	writeErr error
	writes   int
}

func New() *Cache {
	return &Cache{raw: make(map[string][]byte)}
}

func (c *Cache) Load(ctx context.Context) (domain.User, bool, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.raw[localcache.Key]
	if !ok {
		return domain.User{}, false, nil
	}
	var u wire.User
	if err := json.Unmarshal(b, &u); err != nil {
		return domain.User{}, false, nil
	}
	return u.ToDomain(), true, nil
}

func (c *Cache) Store(ctx context.Context, u domain.User) error {
	_ = ctx
	b, err := json.Marshal(wire.UserFromDomain(u))
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.writeErr != nil {
		return c.writeErr
	}
	c.raw[localcache.Key] = b
	return nil
}

func (c *Cache) Clear(ctx context.Context) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.writeErr != nil {
		return c.writeErr
	}
	delete(c.raw, localcache.Key)
	return nil
}

// FailWrites makes every following Store and Clear return err. nil restores writes.
func (c *Cache) FailWrites(err error) {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()
}

// PutRaw stores raw bytes under the cache key.
func (c *Cache) PutRaw(b []byte) {
	c.mu.Lock()
	c.raw[localcache.Key] = append([]byte(nil), b...)
	c.mu.Unlock()
}

// Writes reports how many Store and Clear calls were attempted.
func (c *Cache) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}
