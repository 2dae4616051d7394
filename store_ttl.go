package reqflow

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// TTLStore is a Store backed by a ttlcache with active expiry: entries are
// evicted by a background loop instead of lazily on read.
type TTLStore struct {
	cache *ttlcache.Cache[string, *Response]
}

// NewTTLStore creates a running TTLStore. defaultTTL applies to intents that
// carry no expiry instruction. Call Stop when done.
func NewTTLStore(defaultTTL time.Duration) *TTLStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *Response](defaultTTL),
	)
	go cache.Start()
	return &TTLStore{cache: cache}
}

// Dispatch applies a cache-write intent.
func (s *TTLStore) Dispatch(in Intent) {
	if in.Type != IntentCacheRequest || in.Response == nil {
		return
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.cache.Set(in.Tag, in.Response, ttl)
}

// Snapshot returns the live entries.
func (s *TTLStore) Snapshot() Snapshot {
	requests := make(map[string]CachedRequest)
	for _, item := range s.cache.Items() {
		requests[item.Key()] = CachedRequest{Response: item.Value()}
	}
	return Snapshot{Requests: requests}
}

// Delete removes the entry for tag, if any.
func (s *TTLStore) Delete(tag string) {
	s.cache.Delete(tag)
}

// Stop terminates the background expiry loop.
func (s *TTLStore) Stop() {
	s.cache.Stop()
}
