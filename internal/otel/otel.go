package otel

import (
	"context"
	"sync"

	eventbus "github.com/MechanicalRabbit/RexDB/internal/eventbus"
	events "github.com/MechanicalRabbit/RexDB/internal/events"
	fetchid "github.com/MechanicalRabbit/RexDB/internal/fetchid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches subscribers to the data
// layer's event bus: a span per resource fetch plus an event per
// registry-wide invalidation. If endpoint is empty, no telemetry is
// configured.
func Setup(bus *eventbus.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("rexql")}
	sub.register(bus)

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer     trace.Tracer
	fetchSpans sync.Map // fetch id -> trace.Span
}

func (s *subscriber) register(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, func(ctx context.Context, e events.FetchStart) {
		id, _ := fetchid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "resource.fetch")
		span.SetAttributes(
			attribute.String("resource.name", e.Resource),
			attribute.String("resource.key", e.Key),
		)
		s.fetchSpans.Store(id, span)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.FetchFinish) {
		id, _ := fetchid.FromContext(ctx)
		v, ok := s.fetchSpans.LoadAndDelete(id)
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.Invalidated) {
		_, span := s.tracer.Start(ctx, "resource.invalidate")
		span.SetAttributes(attribute.Int("resource.count", e.Resources))
		span.End()
	})
}
