package authflow

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultTTL = 15 * time.Minute

var _ Repo = (*CacheStore)(nil)

// CacheStore is a TTL-bound in-process Repo. Flow contexts only need to
// survive the gap between the authorization redirect and the token request, so
// an expiring cache is the natural backing store.
type CacheStore struct {
	cache *gocache.Cache
}

// NewCacheStore creates a CacheStore with the given entry TTL (defaultTTL when
// zero).
func NewCacheStore(ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CacheStore{
		cache: gocache.New(ttl, ttl),
	}
}

func (s *CacheStore) Put(_ context.Context, fc *Context) error {
	s.cache.SetDefault(contextKey(fc.TransactionID, fc.Version), fc)
	return nil
}

func (s *CacheStore) Release(_ context.Context, transactionID string, version int) (*Context, error) {
	key := contextKey(transactionID, version)
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	s.cache.Delete(key)
	return value.(*Context), nil
}

func contextKey(transactionID string, version int) string {
	return fmt.Sprintf("%s@v%d", transactionID, version)
}
