package reqflow

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Fire trigger sources, used as a metric label and log field.
const (
	triggerAttach = "attach"
	triggerUpdate = "update"
	triggerManual = "manual"
)

// Controller manages the full lifecycle of one declarative request: it
// decides when to (re)fire, classifies the outcome, bridges an external
// cache store, and publishes every transition. Safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	params    Params
	config    RequestConfig
	configKey []byte
	state     LifecycleState
	attached  bool

	transport Transport
	store     Store
	metrics   *MetricsCollector
	logger    logr.Logger
	publisher *Publisher

	validationError error
}

// New constructs a Controller for the given declarative parameters. The
// parameters are validated immediately; a malformed set surfaces from Attach,
// SetParams and Fire rather than panicking here.
func New(params Params, options ...Option) *Controller {
	c := &Controller{
		params:    params,
		transport: NewHTTPTransport(),
		logger:    logr.Discard(),
	}
	for _, option := range options {
		option(c)
	}

	c.config = params.Extract()
	c.configKey, _ = c.config.Canonical()
	c.state = LifecycleState{Status: StatusInit, Tag: c.config.Tag}
	c.publisher = newPublisher(c.state)
	c.validationError = validateParams(params)
	return c
}

// IsValid reports whether parameter validation passed at construction.
func (c *Controller) IsValid() bool {
	return c.ValidationError() == nil
}

// ValidationError returns the current parameter validation error, if any.
func (c *Controller) ValidationError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validationError
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() LifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Config returns the RequestConfig extracted from the current parameters.
func (c *Controller) Config() RequestConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Watch registers a lifecycle watcher on the controller's publisher. See
// Publisher.Watch.
func (c *Controller) Watch() (<-chan LifecycleState, func()) {
	return c.publisher.Watch()
}

// Publisher returns the controller's state publisher, for handing to
// consumers that should observe but never trigger requests.
func (c *Controller) Publisher() *Publisher {
	return c.publisher
}

// Attach activates the controller. Unless deferred mode is configured the
// request fires immediately. Attaching twice is a no-op. Returns the
// parameter validation error, if any.
func (c *Controller) Attach(ctx context.Context) error {
	c.mu.Lock()
	if err := c.validationError; err != nil {
		c.mu.Unlock()
		return err
	}
	if c.attached {
		c.mu.Unlock()
		return nil
	}
	c.attached = true
	deferred := c.params.Defer
	c.mu.Unlock()

	if !deferred {
		c.fire(ctx, triggerAttach)
	}
	return nil
}

// SetParams replaces the declarative parameters. When the extracted
// RequestConfig is structurally unchanged this is a no-op for the state
// machine; hooks and behavioral flags are still recorded for the next fire.
// A structural change refires immediately unless deferred mode is set on
// the new parameters.
func (c *Controller) SetParams(ctx context.Context, params Params) error {
	if err := validateParams(params); err != nil {
		return err
	}
	config := params.Extract()
	configKey, err := config.Canonical()
	if err != nil {
		return &ControllerError{
			Type:    ErrorTypeValidation,
			Message: "parameters are not canonicalizable",
			Cause:   err,
			Tag:     params.Tag,
			URL:     params.URL,
		}
	}

	c.mu.Lock()
	changed := !bytes.Equal(configKey, c.configKey)
	c.params = params
	c.config = config
	c.configKey = configKey
	c.validationError = nil
	attached := c.attached
	deferred := params.Defer
	c.mu.Unlock()

	if changed && attached && !deferred {
		c.fire(ctx, triggerUpdate)
	}
	return nil
}

// Fire runs the full request algorithm regardless of deferred mode: cache
// probe, then transport call, classification and exactly one hook. It
// returns immediately; the channel receives the terminal transport fault
// (nil on SUCCESS and FAILURE) once the invocation completes, after the
// fault has been recorded into the lifecycle state. Overlapping invocations
// are allowed and race; the last completion owns the state.
func (c *Controller) Fire(ctx context.Context) <-chan error {
	return c.fire(ctx, triggerManual)
}

func (c *Controller) fire(ctx context.Context, trigger string) <-chan error {
	done := make(chan error, 1)

	c.mu.Lock()
	if err := c.validationError; err != nil {
		c.mu.Unlock()
		done <- err
		return done
	}
	cfg := c.config
	params := c.params
	c.mu.Unlock()

	invocationID := uuid.NewString()
	log := c.logger.WithValues("invocation", invocationID, "trigger", trigger, "tag", cfg.Tag)
	c.metrics.RecordFire(trigger, cfg.Method, cfg.Tag)

	// Cache probe comes first: a hit is observably indistinguishable from a
	// network success, minus the transport call.
	if cached, ok := readCache(c.store, cfg.Tag); ok {
		c.metrics.RecordCacheHit(cfg.Tag)
		c.transition(StatusSuccess, cached, nil)
		if params.Hooks.OnSuccess != nil {
			params.Hooks.OnSuccess(cached)
		}
		log.V(1).Info("served from cache", "status", cached.StatusCode)
		done <- nil
		return done
	}
	if c.store != nil && cfg.Tag != "" {
		c.metrics.RecordCacheMiss(cfg.Tag)
	}

	transport := c.transport
	if params.Cache > 0 {
		// Contract failures (no store, no tag) panic here, before START and
		// before any transport call.
		transport = interceptTransport(transport,
			CacheWriteInterceptor(c.store, cfg.Tag, params.Cache),
			c.cacheWriteMetric(cfg.Tag),
		)
	}

	c.transition(StatusStart, nil, nil)
	if params.Hooks.OnStart != nil {
		params.Hooks.OnStart()
	}
	log.V(1).Info("request started", "method", cfg.Method, "url", cfg.URL)
	c.metrics.RecordRequestStart(cfg.Method, cfg.Tag)

	start := time.Now()
	go func() {
		resp, err := transport.Request(ctx, cfg)
		duration := time.Since(start)
		c.metrics.RecordRequestEnd(cfg.Method, cfg.Tag)

		if err != nil {
			c.metrics.RecordError(ErrorTypeTransport)
			c.transition(StatusError, nil, err)
			if params.Hooks.OnError != nil {
				params.Hooks.OnError(err)
			}
			log.Error(err, "transport failed", "duration", duration)
			// Escalate only after the fault is recorded.
			done <- err
			return
		}

		c.metrics.RecordRequestDuration(cfg.Method, resp.StatusCode, duration)
		outcome := &Response{StatusCode: resp.StatusCode, Data: resp.Data}
		if resp.StatusCode/100 == 2 {
			c.transition(StatusSuccess, outcome, nil)
			if params.Hooks.OnSuccess != nil {
				params.Hooks.OnSuccess(outcome)
			}
			log.V(1).Info("request succeeded", "status", resp.StatusCode, "duration", duration)
		} else {
			c.transition(StatusFailure, outcome, nil)
			if params.Hooks.OnFailure != nil {
				params.Hooks.OnFailure(outcome)
			}
			log.V(1).Info("request rejected", "status", resp.StatusCode, "duration", duration)
		}
		done <- nil
	}()
	return done
}

// transition commits the next lifecycle state and publishes it in the same
// critical section, so watchers never observe a partially applied state.
func (c *Controller) transition(next Status, resp *Response, err error) LifecycleState {
	c.mu.Lock()
	state := LifecycleState{Status: next, Response: resp, Err: err, Tag: c.config.Tag}
	c.state = state
	c.publisher.publish(state)
	c.mu.Unlock()

	c.metrics.RecordTransition(next)
	return state
}

func (c *Controller) cacheWriteMetric(tag string) ResponseInterceptor {
	return func(resp *TransportResponse) (*TransportResponse, error) {
		if resp != nil && cacheWriteEligible(resp.Method) {
			c.metrics.RecordCacheWrite(tag)
		}
		return resp, nil
	}
}
