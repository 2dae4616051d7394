package reqflow

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithTransport sets the transport collaborator. Defaults to an
// HTTPTransport with no retries.
func WithTransport(transport Transport) Option {
	return func(c *Controller) {
		c.transport = transport
	}
}

// WithStore attaches the external cache store. Without a store every cache
// read is a miss and caching must not be configured on the parameters.
func WithStore(store Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Controller) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Controller) {
		c.metrics = collector
	}
}

// WithLogger sets the structured logger. Defaults to logr.Discard.
func WithLogger(logger logr.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// validateParams checks the declarative parameters at the boundary, before
// any fire can execute. Malformed parameters are a caller contract violation,
// not a runtime-recoverable condition.
func validateParams(p Params) error {
	var problems []error

	if p.URL == "" {
		problems = append(problems, ErrMissingURL)
	}
	if p.Timeout < 0 {
		problems = append(problems, fmt.Errorf("timeout must be non-negative, got %v", p.Timeout))
	}
	if p.Cache < 0 {
		problems = append(problems, fmt.Errorf("cache duration must be non-negative, got %v", p.Cache))
	}
	if (p.XSRFCookieName == "") != (p.XSRFHeaderName == "") {
		problems = append(problems, fmt.Errorf("xsrf cookie and header names must be set together"))
	}

	if len(problems) > 0 {
		return &ControllerError{
			Type:    ErrorTypeValidation,
			Message: "parameter validation failed",
			Cause:   errors.Join(problems...),
			Tag:     p.Tag,
			URL:     p.URL,
		}
	}
	return nil
}
