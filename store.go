package reqflow

import (
	"hash/fnv"
	"sync"
	"time"
)

// IntentCacheRequest is the only intent type the cache bridge dispatches.
const IntentCacheRequest = "CACHE_REQUEST"

// Intent is a fire-and-forget instruction to a Store. There is no
// acknowledgment: for a given tag the last write wins, and expiry/eviction
// policy belongs to the store.
type Intent struct {
	Type     string
	Tag      string
	Response *Response
	TTL      time.Duration
}

// CachedRequest is a store entry visible through a Snapshot.
type CachedRequest struct {
	Response *Response
}

// Snapshot is a point-in-time view of a Store's live entries keyed by tag.
type Snapshot struct {
	Requests map[string]CachedRequest
}

// Store is the external cache collaborator. Dispatch applies an intent;
// Snapshot supports synchronous lookup. A nil Store on the controller simply
// disables caching.
type Store interface {
	Dispatch(Intent)
	Snapshot() Snapshot
}

// MemoryStore is a sharded in-memory Store. Safe for concurrent use.
type MemoryStore struct {
	shards    []*storeShard
	numShards int
}

type storeShard struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	response  *Response
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	numShards := 16
	shards := make([]*storeShard, numShards)
	for i := range shards {
		shards[i] = &storeShard{entries: make(map[string]memoryEntry)}
	}
	return &MemoryStore{shards: shards, numShards: numShards}
}

func (s *MemoryStore) getShard(tag string) *storeShard {
	h := fnv.New32a()
	h.Write([]byte(tag))
	return s.shards[h.Sum32()%uint32(s.numShards)]
}

// Dispatch applies a cache-write intent. Unknown intent types and intents
// without a response are ignored.
func (s *MemoryStore) Dispatch(in Intent) {
	if in.Type != IntentCacheRequest || in.Response == nil {
		return
	}
	entry := memoryEntry{response: in.Response}
	if in.TTL > 0 {
		entry.expiresAt = time.Now().Add(in.TTL)
	}
	shard := s.getShard(in.Tag)
	shard.mu.Lock()
	shard.entries[in.Tag] = entry
	shard.pruneLocked()
	shard.mu.Unlock()
}

// Snapshot returns the live entries across all shards. Expired entries are
// skipped; they are physically removed on the next write to their shard.
func (s *MemoryStore) Snapshot() Snapshot {
	now := time.Now()
	requests := make(map[string]CachedRequest)
	for _, shard := range s.shards {
		shard.mu.RLock()
		for tag, entry := range shard.entries {
			if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
				continue
			}
			requests[tag] = CachedRequest{Response: entry.response}
		}
		shard.mu.RUnlock()
	}
	return Snapshot{Requests: requests}
}

// Delete removes the entry for tag, if any.
func (s *MemoryStore) Delete(tag string) {
	shard := s.getShard(tag)
	shard.mu.Lock()
	delete(shard.entries, tag)
	shard.mu.Unlock()
}

// Clear removes all entries.
func (s *MemoryStore) Clear() {
	for _, shard := range s.shards {
		shard.mu.Lock()
		shard.entries = make(map[string]memoryEntry)
		shard.mu.Unlock()
	}
}

func (sh *storeShard) pruneLocked() {
	now := time.Now()
	for tag, entry := range sh.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(sh.entries, tag)
		}
	}
}
