package hull

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/errs"
	logger "github.com/xraph/go-utils/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObserve_LogsSuccessfulBuild(t *testing.T) {
	tl := logger.NewTestLogger().(*logger.TestLogger)

	b := NewBuilder(WithLogger(tl))
	MustRegister[*dep3](b, Ctor(newDep3))
	MustRegister[*dep1](b, Ctor(newDep1))

	_, err := b.Build()
	require.NoError(t, err)

	assert.True(t, tl.AssertHasLog("INFO", "container built"))
	assert.True(t, tl.AssertHasLog("DEBUG", "component registered"))
	assert.Len(t, tl.GetLogsByLevel("DEBUG"), 4) // 2 registered, 2 constructed
	assert.Equal(t, 0, tl.CountLogs("ERROR"))
}

func TestObserve_LogsFailedBuild(t *testing.T) {
	tl := logger.NewTestLogger().(*logger.TestLogger)

	b := NewBuilder(WithLogger(tl))
	MustRegister[*depCycle1](b, Ctor(newDepCycle1))
	MustRegister[*depCycle2](b, Ctor(newDepCycle2))

	_, err := b.Build()
	require.Error(t, err)

	assert.True(t, tl.AssertHasLog("ERROR", "container build failed"))
	assert.False(t, tl.AssertHasLog("INFO", "container built"))
}

func TestObserve_LogsAutoRegistration(t *testing.T) {
	tl := logger.NewTestLogger().(*logger.TestLogger)

	b := NewBuilder(WithLogger(tl))
	MustRegister[*depA](b, Ctor(newDepA))

	_, err := b.Build(AutoRegisterMissing())
	require.NoError(t, err)

	assert.True(t, tl.AssertHasLog("DEBUG", "component auto-registered"))
}

func TestObserve_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	b := NewBuilder(WithMetrics(reg))
	_, err := RegisterInstance(b, &dep2{})
	require.NoError(t, err)
	registerChain(b)

	_, err = b.Build()
	require.NoError(t, err)

	// The external instance is not constructed
	assert.Equal(t, float64(12), testutil.ToFloat64(b.metrics.constructed))

	count, err := testutil.GatherAndCount(reg, "hull_build_duration_seconds", "hull_resolution_passes")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "hull_build_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestObserve_MetricsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()

	b := NewBuilder(WithMetrics(reg))
	MustRegister[*depA](b, Ctor(newDepA))

	_, err := b.Build()
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(b.metrics.failures.WithLabelValues(CodeDependencyMissing)))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.metrics.constructed))
}

func TestObserve_SharedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()

	for i := 0; i < 2; i++ {
		b := NewBuilder(WithMetrics(reg))
		MustRegister[*dep1](b, Ctor(newDep1))

		_, err := b.Build()
		require.NoError(t, err)
	}

	b := NewBuilder(WithMetrics(reg))
	assert.Equal(t, float64(2), testutil.ToFloat64(b.metrics.constructed))
}

func TestObserve_MetricsConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "components_constructed_total",
		Help:      "Something else entirely.",
	}))

	tl := logger.NewTestLogger().(*logger.TestLogger)
	b := NewBuilder(WithMetrics(reg), WithLogger(tl))

	assert.True(t, tl.AssertHasLog("WARN", "metrics collector not registered"))
	assert.Equal(t, 1, tl.CountLogs("WARN"))

	MustRegister[*dep1](b, Ctor(newDep1))
	_, err := b.Build()
	require.NoError(t, err)
}

func TestObserve_NoMetricsByDefault(t *testing.T) {
	b := NewBuilder()
	MustRegister[*dep1](b, Ctor(newDep1))

	_, err := b.Build()
	require.NoError(t, err)
	assert.Nil(t, b.metrics)
}

func newRecordingTracer() (*tracetest.SpanRecorder, Option) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return recorder, WithTracer(tp.Tracer("hull-test"))
}

func TestObserve_TracesBuild(t *testing.T) {
	recorder, opt := newRecordingTracer()

	b := NewBuilder(opt)
	MustRegister[*dep3](b, Ctor(newDep3))
	MustRegister[*dep1](b, Ctor(newDep1))

	c, err := b.Build()
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "hull.Build", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.String("hull.build_id", c.ID()))
	assert.Contains(t, span.Attributes(), attribute.Int("hull.components", 2))

	var events []string
	for _, e := range span.Events() {
		events = append(events, e.Name)
	}
	assert.Equal(t, []string{"construct", "construct"}, events)
}

func TestObserve_TracesFailedBuild(t *testing.T) {
	recorder, opt := newRecordingTracer()

	b := NewBuilder(opt)
	MustRegister[*goBoom](b, Ctor(newGoBoom))
	MustRegister[*dep1](b, Ctor(newDep1))

	_, err := b.Build()
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, CodeConstructorFaulted, span.Status().Description)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeContainerAlreadyBuilt, errorCode(ErrContainerAlreadyBuilt))
	assert.Equal(t, CodeDependencyCycle, errorCode(newDependencyCycle(nil, nil, nil)))
	assert.Equal(t, errs.CodeInternal, errorCode(errBoom))
}
