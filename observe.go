package hull

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xraph/go-utils/errs"
	logger "github.com/xraph/go-utils/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const metricsNamespace = "hull"

// buildMetrics holds the Prometheus collectors updated by Build.
type buildMetrics struct {
	duration    prometheus.Histogram
	passes      prometheus.Histogram
	constructed prometheus.Counter
	failures    *prometheus.CounterVec
}

// newBuildMetrics registers the build collectors with r. Builders sharing a
// registerer share the collectors. A collector the registerer rejects is
// logged and left unregistered.
func newBuildMetrics(r prometheus.Registerer, log logger.Logger) *buildMetrics {
	if r == nil {
		return nil
	}

	return &buildMetrics{
		duration: registerCollector(r, log, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent in Build, successful or not.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		})),
		passes: registerCollector(r, log, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resolution_passes",
			Help:      "Fixed-point passes needed per Build.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		})),
		constructed: registerCollector(r, log, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "components_constructed_total",
			Help:      "Components whose constructor ran successfully.",
		})),
		failures: registerCollector(r, log, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "build_failures_total",
			Help:      "Failed builds by error code.",
		}, []string{"code"})),
	}
}

func registerCollector[C prometheus.Collector](r prometheus.Registerer, log logger.Logger, c C) C {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}

		log.Warn("metrics collector not registered", logger.Error(err))
	}

	return c
}

// buildObserver reports one Build to the logger, metrics and tracer.
type buildObserver struct {
	ctx     context.Context
	id      string
	log     logger.Logger
	metrics *buildMetrics
	span    trace.Span
	start   time.Time
}

func newBuildObserver(cfg *builderConfig, metrics *buildMetrics, id string, components int) *buildObserver {
	ctx, span := cfg.tracer.Start(context.Background(), "hull.Build",
		trace.WithAttributes(
			attribute.String("hull.build_id", id),
			attribute.Int("hull.components", components),
		),
	)

	return &buildObserver{
		ctx:     ctx,
		id:      id,
		log:     cfg.logger.With(logger.String("build_id", id)),
		metrics: metrics,
		span:    span,
		start:   time.Now(),
	}
}

func (o *buildObserver) constructed(typ reflect.Type, order int, elapsed time.Duration) {
	o.log.Debug("component constructed",
		logger.String("type", DescribeType(typ)),
		logger.Int("order", order),
		logger.Duration("elapsed", elapsed),
	)
	o.span.AddEvent("construct", trace.WithAttributes(
		attribute.String("hull.component", DescribeType(typ)),
		attribute.Int("hull.order", order),
	))

	if o.metrics != nil {
		o.metrics.constructed.Inc()
	}
}

func (o *buildObserver) autoRegistered(typ reflect.Type) {
	o.log.Debug("component auto-registered", logger.String("type", DescribeType(typ)))
	o.span.AddEvent("auto_register", trace.WithAttributes(
		attribute.String("hull.component", DescribeType(typ)),
	))
}

func (o *buildObserver) finish(passes, constructed int, err error) {
	elapsed := time.Since(o.start)
	defer o.span.End()

	o.span.SetAttributes(attribute.Int("hull.passes", passes))

	if o.metrics != nil {
		o.metrics.duration.Observe(elapsed.Seconds())
		o.metrics.passes.Observe(float64(passes))
	}

	if err == nil {
		o.log.Info("container built",
			logger.Int("components", constructed),
			logger.Int("passes", passes),
			logger.Duration("build_time", elapsed),
		)
		o.span.SetStatus(codes.Ok, "")

		return
	}

	code := errorCode(err)

	o.log.Error("container build failed",
		logger.String("code", code),
		logger.Int("constructed", constructed),
		logger.Error(err),
	)
	o.span.RecordError(err)
	o.span.SetStatus(codes.Error, code)

	if o.metrics != nil {
		o.metrics.failures.WithLabelValues(code).Inc()
	}
}

func errorCode(err error) string {
	var coded errs.CodedError
	if errors.As(err, &coded) {
		return coded.GetCode()
	}

	return errs.CodeInternal
}
