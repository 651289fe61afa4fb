package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/promotiq/internal/domain"
)

const tracerName = "github.com/neomorfeo/promotiq/internal/adapter/otel"

// TracingPromotionRepository wraps a domain.CatalogPromotionRepository with
// OpenTelemetry tracing. Each method creates a span with semantic
// attributes and records errors.
type TracingPromotionRepository struct {
	next   domain.CatalogPromotionRepository
	tracer trace.Tracer
}

// Compile-time check: TracingPromotionRepository implements the port.
var _ domain.CatalogPromotionRepository = (*TracingPromotionRepository)(nil)

// NewTracingPromotionRepository creates a tracing decorator around the given repository.
func NewTracingPromotionRepository(next domain.CatalogPromotionRepository) *TracingPromotionRepository {
	return &TracingPromotionRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingPromotionRepository) Create(ctx context.Context, promotion domain.CatalogPromotion) error {
	ctx, span := r.tracer.Start(ctx, "CatalogPromotionRepository.Create",
		trace.WithAttributes(
			attribute.String("promotion.code", promotion.Code),
			attribute.Bool("promotion.enabled", promotion.Enabled),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, promotion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingPromotionRepository) FindOneByCode(ctx context.Context, code string) (domain.CatalogPromotion, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogPromotionRepository.FindOneByCode",
		trace.WithAttributes(attribute.String("promotion.code", code)),
	)
	defer span.End()

	promotion, err := r.next.FindOneByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return promotion, err
}

func (r *TracingPromotionRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.CatalogPromotion, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogPromotionRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.State != nil {
		span.SetAttributes(attribute.String("filter.state", string(*filter.State)))
	}

	promotions, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(promotions)))
	}
	return promotions, err
}

func (r *TracingPromotionRepository) Update(ctx context.Context, promotion domain.CatalogPromotion) error {
	ctx, span := r.tracer.Start(ctx, "CatalogPromotionRepository.Update",
		trace.WithAttributes(
			attribute.String("promotion.code", promotion.Code),
			attribute.String("promotion.state", string(promotion.State)),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, promotion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingPromotionRepository) Delete(ctx context.Context, code string) error {
	ctx, span := r.tracer.Start(ctx, "CatalogPromotionRepository.Delete",
		trace.WithAttributes(attribute.String("promotion.code", code)),
	)
	defer span.End()

	err := r.next.Delete(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
