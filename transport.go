package reqflow

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ankitpopli1891/reqflow/internal/backoff"
)

// TransportResponse is what a Transport hands back to the controller before
// classification. Method echoes the request's method so response
// interceptors can apply method-dependent policy.
type TransportResponse struct {
	StatusCode int
	Data       []byte
	Header     http.Header
	Method     string
}

// Transport issues a request described by a RequestConfig. Implementations
// must return a non-nil error on transport-level failure (network, timeout)
// and a response for any completed HTTP exchange regardless of status code.
type Transport interface {
	Request(ctx context.Context, cfg RequestConfig) (*TransportResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, cfg RequestConfig) (*TransportResponse, error)

// Request implements Transport.
func (f TransportFunc) Request(ctx context.Context, cfg RequestConfig) (*TransportResponse, error) {
	return f(ctx, cfg)
}

// ResponseInterceptor inspects every completed response before it reaches the
// controller. Returning a response replaces the one in flight; returning nil
// keeps it unchanged; returning an error aborts the exchange.
type ResponseInterceptor func(*TransportResponse) (*TransportResponse, error)

// interceptTransport wraps next so that interceptors run, in order, on every
// successful response.
func interceptTransport(next Transport, interceptors ...ResponseInterceptor) Transport {
	if len(interceptors) == 0 {
		return next
	}
	return TransportFunc(func(ctx context.Context, cfg RequestConfig) (*TransportResponse, error) {
		resp, err := next.Request(ctx, cfg)
		if err != nil {
			return nil, err
		}
		for _, intercept := range interceptors {
			replaced, err := intercept(resp)
			if err != nil {
				return nil, err
			}
			if replaced != nil {
				resp = replaced
			}
		}
		return resp, nil
	})
}

// HTTPTransport is the default Transport on net/http. It supports a response
// interceptor chain and optional retries with backoff. Retries default to
// off so every controller invocation maps to a single HTTP exchange.
type HTTPTransport struct {
	client       *http.Client
	interceptors []ResponseInterceptor
	maxRetries   int
	strategy     backoff.Strategy
	maxBodyBytes int64
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(client *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// WithInterceptors appends response interceptors to the chain.
func WithInterceptors(interceptors ...ResponseInterceptor) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.interceptors = append(t.interceptors, interceptors...)
	}
}

// WithRetries enables up to n retries for network errors and 5xx responses.
func WithRetries(n int) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.maxRetries = n
	}
}

// WithBackoffStrategy sets the delay calculation used between retries.
func WithBackoffStrategy(strategy backoff.Strategy) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.strategy = strategy
	}
}

// WithMaxBodyBytes caps how much of a response body is read and retained.
func WithMaxBodyBytes(n int64) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.maxBodyBytes = n
	}
}

// NewHTTPTransport constructs an HTTPTransport with the provided options.
func NewHTTPTransport(options ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client:       &http.Client{Timeout: 30 * time.Second},
		maxRetries:   0,
		strategy:     backoff.Exponential{},
		maxBodyBytes: 10 * 1024 * 1024,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// Use appends a response interceptor to the chain.
func (t *HTTPTransport) Use(intercept ResponseInterceptor) {
	t.interceptors = append(t.interceptors, intercept)
}

// Request implements Transport.
func (t *HTTPTransport) Request(ctx context.Context, cfg RequestConfig) (*TransportResponse, error) {
	var resp *TransportResponse
	var err error

	for attempt := 0; ; attempt++ {
		resp, err = t.exchange(ctx, cfg)
		if !t.shouldRetry(resp, err) || attempt >= t.maxRetries {
			break
		}
		select {
		case <-time.After(t.strategy.Delay(attempt)):
		case <-ctx.Done():
			return nil, t.transportError(cfg, ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}

	for _, intercept := range t.interceptors {
		replaced, err := intercept(resp)
		if err != nil {
			return nil, err
		}
		if replaced != nil {
			resp = replaced
		}
	}
	return resp, nil
}

func (t *HTTPTransport) shouldRetry(resp *TransportResponse, err error) bool {
	if t.maxRetries <= 0 {
		return false
	}
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500
}

// exchange performs a single HTTP round trip.
func (t *HTTPTransport) exchange(ctx context.Context, cfg RequestConfig) (*TransportResponse, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := t.build(ctx, cfg)
	if err != nil {
		return nil, t.transportError(cfg, err)
	}

	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, t.transportError(cfg, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, t.maxBodyBytes))
	if err != nil {
		return nil, t.transportError(cfg, err)
	}

	return &TransportResponse{
		StatusCode: httpResp.StatusCode,
		Data:       data,
		Header:     httpResp.Header.Clone(),
		Method:     cfg.Method,
	}, nil
}

func (t *HTTPTransport) build(ctx context.Context, cfg RequestConfig) (*http.Request, error) {
	target, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}
	if len(cfg.Query) > 0 {
		query := target.Query()
		for key, value := range cfg.Query {
			query.Set(key, value)
		}
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	if len(cfg.Body) > 0 {
		body = bytes.NewReader(cfg.Body)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	for key, value := range cfg.Header {
		req.Header.Set(key, value)
	}
	if cfg.Auth != nil {
		req.SetBasicAuth(cfg.Auth.Username, cfg.Auth.Password)
	}
	t.applyXSRF(req, cfg)
	return req, nil
}

// applyXSRF echoes the named cookie into the named header, when both names
// are configured and the client's jar holds the cookie for the target URL.
func (t *HTTPTransport) applyXSRF(req *http.Request, cfg RequestConfig) {
	if cfg.XSRFCookieName == "" || cfg.XSRFHeaderName == "" || t.client.Jar == nil {
		return
	}
	for _, cookie := range t.client.Jar.Cookies(req.URL) {
		if cookie.Name == cfg.XSRFCookieName {
			req.Header.Set(cfg.XSRFHeaderName, cookie.Value)
			return
		}
	}
}

func (t *HTTPTransport) transportError(cfg RequestConfig, cause error) *ControllerError {
	return &ControllerError{
		Type:      ErrorTypeTransport,
		Message:   "request failed",
		Cause:     cause,
		Tag:       cfg.Tag,
		Method:    cfg.Method,
		URL:       cfg.URL,
		Timestamp: time.Now(),
	}
}
