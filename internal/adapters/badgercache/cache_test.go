package badgercache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/localcache"
)

func openMem(t *testing.T) *Cache {
	t.Helper()
	c, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_AbsentIsNotAnError(t *testing.T) {
	t.Parallel()

	c := openMem(t)
	_, ok, err := c.Load(context.Background())
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v, want absent without error", ok, err)
	}
	if err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear on empty cache: %v", err)
	}
}

func TestCache_StoreLoadClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openMem(t)
	u := domain.User{ID: "u1", Email: "ada@example.com", Name: "Ada", AvatarURL: "/avatars/a.png", JoinedDate: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)}
	if err := c.Store(ctx, u); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok, err := c.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got.ID != u.ID || got.Email != u.Email || got.Name != u.Name || got.AvatarURL != u.AvatarURL || !got.JoinedDate.Equal(u.JoinedDate) {
		t.Fatalf("got=%+v, want %+v", got, u)
	}

	u.Name = "Ada King"
	if err := c.Store(ctx, u); err != nil {
		t.Fatalf("Store overwrite: %v", err)
	}
	got, _, _ = c.Load(ctx)
	if got.Name != "Ada King" {
		t.Fatalf("name=%q, want overwritten", got.Name)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := c.Load(ctx); ok {
		t.Fatalf("expected absent after Clear")
	}
}

func TestCache_CorruptEntryIsIgnored(t *testing.T) {
	t.Parallel()

	c := openMem(t)
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(localcache.Key), []byte("not json"))
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok, err := c.Load(context.Background()); ok || err != nil {
		t.Fatalf("ok=%v err=%v, want ignored", ok, err)
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Store(context.Background(), domain.User{ID: "u1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err = Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	got, ok, err := c.Load(context.Background())
	if err != nil || !ok || got.Email != "ada@example.com" {
		t.Fatalf("got=%+v ok=%v err=%v", got, ok, err)
	}
}
