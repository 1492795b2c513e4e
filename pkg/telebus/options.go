package telebus

import (
	"github.com/bft-labs/telebus/pkg/log"
)

// Option configures optional behavior of a Session.
type Option func(*options)

// options holds the optional configuration for a Session.
type options struct {
	connector    Connector
	logger       Logger
	metrics      Metrics
	eventHandler EventHandler
}

// defaultOptions returns options with sensible defaults. A nil connector
// means the system bus.
func defaultOptions() options {
	return options{
		logger: log.NoopLogger{},
	}
}

// WithConnector sets the bus connector.
// If not provided, the system bus is used.
func WithConnector(c Connector) Option {
	return func(o *options) {
		o.connector = c
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets a recorder for correlation activity, e.g. the
// Prometheus recorder from internal/adapters/metrics.
// If not provided, nothing is recorded.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithEventHandler sets a handler for lifecycle events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
