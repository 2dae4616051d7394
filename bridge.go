package reqflow

import (
	"net/http"
	"strings"
	"time"
)

// readCache returns the cached response for tag. A nil store, empty tag or
// unknown tag is a hard miss, never an error.
func readCache(store Store, tag string) (*Response, bool) {
	if store == nil || tag == "" {
		return nil, false
	}
	cached, ok := store.Snapshot().Requests[tag]
	if !ok || cached.Response == nil {
		return nil, false
	}
	return cached.Response, true
}

// cacheWriteEligible reports whether a response to the given method may be
// written to the store. Only HEAD, GET and POST responses are cacheable.
func cacheWriteEligible(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodHead, http.MethodGet, http.MethodPost:
		return true
	}
	return false
}

// CacheWriteInterceptor returns a response interceptor that dispatches a
// cache-write intent for eligible responses and forwards every response
// unchanged. A configured cache duration requires both a store and a tag;
// either missing is a programming error and panics immediately, before any
// transport call the interceptor could observe.
func CacheWriteInterceptor(store Store, tag string, ttl time.Duration) ResponseInterceptor {
	if store == nil {
		panic("reqflow: cache duration configured but no store attached")
	}
	if tag == "" {
		panic("reqflow: cache duration configured but tag is empty")
	}
	return func(resp *TransportResponse) (*TransportResponse, error) {
		if resp == nil || !cacheWriteEligible(resp.Method) {
			return resp, nil
		}
		store.Dispatch(Intent{
			Type:     IntentCacheRequest,
			Tag:      tag,
			Response: &Response{StatusCode: resp.StatusCode, Data: resp.Data},
			TTL:      ttl,
		})
		return resp, nil
	}
}
