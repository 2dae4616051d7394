package reqflow

import (
	"bytes"
	"encoding/gob"
	"strings"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const levelKeyPrefix = "t:"

// LevelStore is a persistent Store backed by LevelDB, for cached responses
// that should survive a restart.
type LevelStore struct {
	db *leveldb.DB
}

type levelEntry struct {
	Response  Response
	ExpiresAt time.Time // zero means no expiry
}

// OpenLevelStore opens (or creates) a LevelDB-backed store at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelStore{db: db}, nil
}

// Dispatch applies a cache-write intent. Encoding or write failures drop the
// intent; dispatches carry no acknowledgment.
func (s *LevelStore) Dispatch(in Intent) {
	if in.Type != IntentCacheRequest || in.Response == nil {
		return
	}
	entry := levelEntry{Response: *in.Response}
	if in.TTL > 0 {
		entry.ExpiresAt = time.Now().Add(in.TTL)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return
	}
	_ = s.db.Put([]byte(levelKeyPrefix+in.Tag), buf.Bytes(), nil)
}

// Snapshot returns the live entries. Expired entries found during the scan
// are deleted in a single batch.
func (s *LevelStore) Snapshot() Snapshot {
	now := time.Now()
	requests := make(map[string]CachedRequest)
	var stale [][]byte

	iter := s.db.NewIterator(util.BytesPrefix([]byte(levelKeyPrefix)), nil)
	for iter.Next() {
		var entry levelEntry
		if err := gob.NewDecoder(bytes.NewReader(iter.Value())).Decode(&entry); err != nil {
			continue
		}
		if !entry.ExpiresAt.IsZero() && now.After(entry.ExpiresAt) {
			stale = append(stale, append([]byte(nil), iter.Key()...))
			continue
		}
		tag := strings.TrimPrefix(string(iter.Key()), levelKeyPrefix)
		resp := entry.Response
		requests[tag] = CachedRequest{Response: &resp}
	}
	iter.Release()

	if len(stale) > 0 {
		batch := new(leveldb.Batch)
		for _, key := range stale {
			batch.Delete(key)
		}
		_ = s.db.Write(batch, nil)
	}
	return Snapshot{Requests: requests}
}

// Delete removes the entry for tag, if any.
func (s *LevelStore) Delete(tag string) {
	_ = s.db.Delete([]byte(levelKeyPrefix+tag), nil)
}

// Close releases the underlying database.
func (s *LevelStore) Close() error {
	return s.db.Close()
}
