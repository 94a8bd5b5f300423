// Package badgercache is the durable local cache of the session user, kept in
// an embedded badger database on the client.
package badgercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/localcache"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

var _ localcache.Cache = (*Cache)(nil)

type Cache struct {
	db  *badger.DB
	log *slog.Logger
	key []byte
}

// Open opens (or creates) the cache under dir. An empty dir keeps the cache in memory.
func Open(dir string, log *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &Cache{db: db, log: logger.OrDefault(log), key: []byte(localcache.Key)}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Load returns the cached user. A missing or unreadable entry reports ok=false;
// the entry is then ignored rather than failing bootstrap.
func (c *Cache) Load(ctx context.Context) (domain.User, bool, error) {
	_ = ctx
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("read cached user: %w", err)
	}

	var u wire.User
	if err := json.Unmarshal(raw, &u); err != nil {
		c.log.Warn("ignoring unreadable cached user", slog.String("error", err.Error()))
		return domain.User{}, false, nil
	}
	return u.ToDomain(), true, nil
}

func (c *Cache) Store(ctx context.Context, u domain.User) error {
	_ = ctx
	data, err := json.Marshal(wire.UserFromDomain(u))
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.key, data)
	}); err != nil {
		return fmt.Errorf("write cached user: %w", err)
	}
	return nil
}

func (c *Cache) Clear(ctx context.Context) error {
	_ = ctx
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(c.key)
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("clear cached user: %w", err)
	}
	return nil
}
