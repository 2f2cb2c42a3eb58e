// SPDX-License-Identifier: MPL-2.0

package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"gobox/pkg/applet"
	"gobox/pkg/box"
)

// Scope is the instrumentation scope name registered with the
// telemetry providers.
const Scope = "gobox"

// Attribute keys shared by the dispatch span and the dispatch
// metrics.
var (
	attrApplet   = attribute.Key("applet")
	attrStrategy = attribute.Key("strategy")
	attrClass    = attribute.Key("class")
	attrCode     = attribute.Key("code")
)

type (
	// Config selects the OpenTelemetry providers the facade records
	// against. The zero value uses the process-global providers.
	Config struct {
		// MeterProvider overrides the global meter provider.
		MeterProvider metric.MeterProvider
		// TracerProvider overrides the global tracer provider.
		TracerProvider trace.TracerProvider
	}

	// Telemetry observes toolbox dispatches. It opens a span per
	// dispatch, counts completed invocations by applet, strategy, and
	// outcome class, and records dispatch latency. Safe for concurrent
	// use.
	Telemetry struct {
		tracer      trace.Tracer
		invocations metric.Int64Counter
		duration    metric.Float64Histogram
		active      metric.Int64UpDownCounter
	}
)

// New builds the facade on cfg's providers and registers the dispatch
// instruments.
func New(cfg Config) (*Telemetry, error) {
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	meter := mp.Meter(Scope)
	t := &Telemetry{tracer: tp.Tracer(Scope)}

	var err error
	t.invocations, err = meter.Int64Counter("gobox.invocations",
		metric.WithDescription("Completed applet dispatches."),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("invocations counter: %w", err)
	}

	t.duration, err = meter.Float64Histogram("gobox.dispatch.duration",
		metric.WithDescription("Wall-clock time spent on one applet dispatch."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("duration histogram: %w", err)
	}

	t.active, err = meter.Int64UpDownCounter("gobox.dispatch.active",
		metric.WithDescription("Dispatches currently in flight."),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("active counter: %w", err)
	}

	return t, nil
}

// OnDispatch opens the dispatch span and returns the context carrying
// it. The box calls the returned function exactly once, after outcome
// classification; nested dispatches made with the returned context
// become child spans.
func (t *Telemetry) OnDispatch(ctx context.Context, name string, strategy box.Strategy) (context.Context, func(applet.Outcome)) {
	base := []attribute.KeyValue{
		attrApplet.String(name),
		attrStrategy.String(strategy.String()),
	}

	ctx, span := t.tracer.Start(ctx, "dispatch "+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(base...),
	)
	t.active.Add(ctx, 1, metric.WithAttributes(base...))
	start := time.Now()

	return ctx, func(out applet.Outcome) {
		t.active.Add(ctx, -1, metric.WithAttributes(base...))

		attrs := metric.WithAttributes(append(base,
			attrClass.String(out.Class.String()),
		)...)
		t.invocations.Add(ctx, 1, attrs)
		t.duration.Record(ctx, time.Since(start).Seconds(), attrs)

		span.SetAttributes(
			attrClass.String(out.Class.String()),
			attrCode.Int(out.Code),
		)
		if out.Success() {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, out.Diag)
		}
		span.End()
	}
}
