package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/siteadmin/pkg/session"
)

// SlotStore implements session.Store on Redis. Keys are namespaced with a
// prefix and, optionally, a scope such as a browser id.
type SlotStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSlotStore creates a store. A zero ttl keeps slots until cleared.
func NewSlotStore(client redis.UniversalClient, prefix string, ttl time.Duration) *SlotStore {
	return &SlotStore{client: client, prefix: strings.TrimSuffix(prefix, ":"), ttl: ttl}
}

// NewSlotStoreFromConfig creates a store using cfg.Prefix and cfg.SlotTTL.
func NewSlotStoreFromConfig(client redis.UniversalClient, cfg Config) *SlotStore {
	return NewSlotStore(client, cfg.Prefix, cfg.SlotTTL)
}

// Scoped returns a store whose keys live under scope.
func (s *SlotStore) Scoped(scope string) *SlotStore {
	return &SlotStore{client: s.client, prefix: s.key(scope), ttl: s.ttl}
}

// Factory scopes slots to the browsing context identified by cookieName.
func (s *SlotStore) Factory(cookieName string, secure bool) session.StoreFactory {
	return session.BrowserScoped(cookieName, secure, func(browserID string) session.Store {
		return s.Scoped(browserID)
	})
}

// Get reads a slot and, when the store has a ttl, restarts its expiry so an
// active browsing session keeps its slot.
func (s *SlotStore) Get(ctx context.Context, key string) (string, error) {
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.client.GetEx(ctx, s.key(key), s.ttl)
	} else {
		cmd = s.client.Get(ctx, s.key(key))
	}
	v, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SlotStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

func (s *SlotStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *SlotStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}
