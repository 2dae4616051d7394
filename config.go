package reqflow

import (
	"net/http"
	"strings"
	"time"

	"github.com/ankitpopli1891/reqflow/internal/canon"
)

// BasicAuth carries credentials attached to outgoing requests.
type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Hooks are the lifecycle callbacks invoked by the controller. Each completed
// invocation fires exactly one of OnSuccess, OnFailure or OnError; OnStart
// fires whenever a transport call is about to be issued. Nil hooks are
// skipped.
type Hooks struct {
	OnStart   func()
	OnSuccess func(*Response)
	OnFailure func(*Response)
	OnError   func(error)
}

// Params is the full declarative surface handed to a Controller: the request
// description itself plus behavioral flags and lifecycle hooks. Behavioral
// fields (Defer, Cache, Hooks) never participate in change detection since
// they do not affect what is fetched.
type Params struct {
	URL            string
	Method         string
	Header         map[string]string
	Query          map[string]string
	Body           []byte
	Timeout        time.Duration
	Auth           *BasicAuth
	ResponseType   string
	XSRFCookieName string
	XSRFHeaderName string

	// Tag correlates this request's cached response across controller
	// instances sharing a Store.
	Tag string
	// Cache is the expiry instruction attached to cache writes. Zero
	// disables caching for this request.
	Cache time.Duration
	// Defer disables automatic firing on attach and on parameter change;
	// the request then only runs through an explicit Fire.
	Defer bool

	Hooks Hooks
}

// RequestConfig is the canonical projection of Params: the whitelisted fields
// that describe what is fetched. Absent fields are pruned from its canonical
// form, and two configs are compared by that form to decide whether new
// parameters constitute a new request.
type RequestConfig struct {
	URL            string            `json:"url,omitempty"`
	Method         string            `json:"method,omitempty"`
	Header         map[string]string `json:"header,omitempty"`
	Query          map[string]string `json:"query,omitempty"`
	Body           []byte            `json:"body,omitempty"`
	Timeout        time.Duration     `json:"timeout,omitempty"`
	Auth           *BasicAuth        `json:"auth,omitempty"`
	ResponseType   string            `json:"responseType,omitempty"`
	XSRFCookieName string            `json:"xsrfCookieName,omitempty"`
	XSRFHeaderName string            `json:"xsrfHeaderName,omitempty"`
	Tag            string            `json:"tag,omitempty"`
}

// Extract derives the RequestConfig from p. Pure: hooks and behavioral flags
// are ignored, the method is normalized to upper case and defaults to GET.
func (p Params) Extract() RequestConfig {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	return RequestConfig{
		URL:            p.URL,
		Method:         method,
		Header:         p.Header,
		Query:          p.Query,
		Body:           p.Body,
		Timeout:        p.Timeout,
		Auth:           p.Auth,
		ResponseType:   p.ResponseType,
		XSRFCookieName: p.XSRFCookieName,
		XSRFHeaderName: p.XSRFHeaderName,
		Tag:            p.Tag,
	}
}

// Canonical returns the canonical byte form of c used for change detection.
func (c RequestConfig) Canonical() ([]byte, error) {
	return canon.Marshal(c)
}

// Fingerprint returns a 64-bit content hash of the canonical form of c.
func (c RequestConfig) Fingerprint() (uint64, error) {
	return canon.Fingerprint(c)
}

// Equal reports deep structural equality between c and o.
func (c RequestConfig) Equal(o RequestConfig) bool {
	eq, err := canon.Equal(c, o)
	return err == nil && eq
}
