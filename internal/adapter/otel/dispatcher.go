package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// TracingDispatcher wraps a domain.MessageDispatcher with OpenTelemetry tracing.
type TracingDispatcher struct {
	next   domain.MessageDispatcher
	tracer trace.Tracer
}

// Compile-time check: TracingDispatcher implements domain.MessageDispatcher.
var _ domain.MessageDispatcher = (*TracingDispatcher)(nil)

// NewTracingDispatcher creates a tracing decorator around the given dispatcher.
func NewTracingDispatcher(next domain.MessageDispatcher) *TracingDispatcher {
	return &TracingDispatcher{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (d *TracingDispatcher) Dispatch(ctx context.Context, msg domain.Message) error {
	ctx, span := d.tracer.Start(ctx, "MessageDispatcher.Dispatch",
		trace.WithAttributes(attribute.String("message.name", msg.MessageName())),
	)
	defer span.End()

	err := d.next.Dispatch(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (d *TracingDispatcher) DispatchAfter(ctx context.Context, msg domain.Message, delay time.Duration) error {
	ctx, span := d.tracer.Start(ctx, "MessageDispatcher.DispatchAfter",
		trace.WithAttributes(
			attribute.String("message.name", msg.MessageName()),
			attribute.Int64("message.delay_ms", delay.Milliseconds()),
		),
	)
	defer span.End()

	err := d.next.DispatchAfter(ctx, msg, delay)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
