package reqflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLStoreRoundTrip(t *testing.T) {
	store := NewTTLStore(time.Minute)
	defer store.Stop()

	store.Dispatch(Intent{
		Type:     IntentCacheRequest,
		Tag:      "a",
		Response: &Response{StatusCode: 200, Data: []byte("X")},
	})

	snap := store.Snapshot()
	cached, ok := snap.Requests["a"]
	require.True(t, ok, "expected an entry for tag a")
	assert.Equal(t, 200, cached.Response.StatusCode)
	assert.Equal(t, []byte("X"), cached.Response.Data)
}

func TestTTLStoreExpiry(t *testing.T) {
	store := NewTTLStore(time.Minute)
	defer store.Stop()

	store.Dispatch(Intent{
		Type:     IntentCacheRequest,
		Tag:      "short",
		Response: &Response{StatusCode: 200},
		TTL:      20 * time.Millisecond,
	})

	_, ok := store.Snapshot().Requests["short"]
	require.True(t, ok, "expected a live entry before expiry")

	assert.Eventually(t, func() bool {
		_, ok := store.Snapshot().Requests["short"]
		return !ok
	}, time.Second, 10*time.Millisecond, "expected the entry to expire")
}

func TestTTLStoreIgnoresForeignIntents(t *testing.T) {
	store := NewTTLStore(time.Minute)
	defer store.Stop()

	store.Dispatch(Intent{Type: "SOMETHING_ELSE", Tag: "a", Response: &Response{StatusCode: 200}})
	assert.Empty(t, store.Snapshot().Requests)
}

func TestTTLStoreDelete(t *testing.T) {
	store := NewTTLStore(time.Minute)
	defer store.Stop()

	store.Dispatch(Intent{Type: IntentCacheRequest, Tag: "a", Response: &Response{StatusCode: 200}})
	store.Delete("a")
	assert.Empty(t, store.Snapshot().Requests)
}
