package hull

import (
	"github.com/prometheus/client_golang/prometheus"
	logger "github.com/xraph/go-utils/log"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Option configures a Builder.
type Option interface {
	apply(*builderConfig)
}

// builderConfig holds configuration for a Builder.
type builderConfig struct {
	logger     logger.Logger
	registerer prometheus.Registerer
	tracer     trace.Tracer
	middleware []Middleware
	strict     bool
}

// optionFunc is a function adapter for Option
type optionFunc func(*builderConfig)

func (f optionFunc) apply(c *builderConfig) { f(c) }

func defaultBuilderConfig() *builderConfig {
	return &builderConfig{
		logger: logger.NewNoopLogger(),
		tracer: noop.NewTracerProvider().Tracer(""),
	}
}

// WithLogger sets the logger used for registration and build events.
func WithLogger(l logger.Logger) Option {
	return optionFunc(func(c *builderConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMetrics registers build metrics with the given registerer.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	b := hull.NewBuilder(hull.WithMetrics(reg))
func WithMetrics(r prometheus.Registerer) Option {
	return optionFunc(func(c *builderConfig) {
		c.registerer = r
	})
}

// WithTracer records a span for every Build.
func WithTracer(t trace.Tracer) Option {
	return optionFunc(func(c *builderConfig) {
		if t != nil {
			c.tracer = t
		}
	})
}

// WithMiddleware adds construction hooks, called in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return optionFunc(func(c *builderConfig) {
		c.middleware = append(c.middleware, mw...)
	})
}

// StrictRegistration makes registering a type-key that is already mapped to
// another component fail instead of replacing the mapping.
func StrictRegistration() Option {
	return optionFunc(func(c *builderConfig) {
		c.strict = true
	})
}

// BuildOption configures a single Build call.
type BuildOption interface {
	applyBuild(*buildConfig)
}

type buildConfig struct {
	autoRegister bool
}

type buildOptionFunc func(*buildConfig)

func (f buildOptionFunc) applyBuild(c *buildConfig) { f(c) }

// AutoRegisterMissing lets Build register missing concrete dependencies on the
// fly, using declared constructors or the zero value of struct types.
// Missing interface types still fail the build.
func AutoRegisterMissing() BuildOption {
	return buildOptionFunc(func(c *buildConfig) {
		c.autoRegister = true
	})
}
