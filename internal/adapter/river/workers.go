package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/promotiq/internal/app"
	"github.com/neomorfeo/promotiq/internal/domain"
)

// Handlers bundles the application handlers and listeners the workers
// delegate to. Registration happens once at startup in Setup; there is no
// runtime discovery.
type Handlers struct {
	Apply        *app.ApplyCatalogPromotionsOnVariantsHandler
	UpdateState  *app.UpdateCatalogPromotionStateHandler
	Disable      *app.DisableCatalogPromotionHandler
	Remove       *app.RemoveCatalogPromotionHandler
	StateChanged *app.CatalogPromotionStateChangedListener
	Created      *app.CatalogPromotionCreatedListener
	Updated      *app.CatalogPromotionUpdatedListener
	Ended        *app.CatalogPromotionEndedListener
	Product      *app.ProductCreatedListener
	Variant      *app.ProductVariantUpdatedListener
}

// ApplyWorker consumes batch apply commands.
type ApplyWorker struct {
	river.WorkerDefaults[ApplyOnVariantsArgs]
	handler *app.ApplyCatalogPromotionsOnVariantsHandler
}

// Work processes one apply batch.
func (w *ApplyWorker) Work(ctx context.Context, job *river.Job[ApplyOnVariantsArgs]) error {
	slog.InfoContext(ctx, "recomputing catalog promotions on variants",
		"batch_id", job.Args.BatchID,
		"variants", len(job.Args.VariantCodes),
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return w.handler.Handle(ctx, domain.ApplyCatalogPromotionsOnVariants{
		BatchID:      job.Args.BatchID,
		VariantCodes: job.Args.VariantCodes,
	})
}

// UpdateStateWorker consumes asynchronous state update commands (the
// removal sequence dispatches these; listeners dispatch the same command
// synchronously through the command bus).
type UpdateStateWorker struct {
	river.WorkerDefaults[UpdateStateArgs]
	handler *app.UpdateCatalogPromotionStateHandler
}

func (w *UpdateStateWorker) Work(ctx context.Context, job *river.Job[UpdateStateArgs]) error {
	return w.handler.Handle(ctx, domain.UpdateCatalogPromotionState{Code: job.Args.Code})
}

// DisableWorker consumes disable commands.
type DisableWorker struct {
	river.WorkerDefaults[DisableArgs]
	handler *app.DisableCatalogPromotionHandler
}

func (w *DisableWorker) Work(ctx context.Context, job *river.Job[DisableArgs]) error {
	return w.handler.Handle(ctx, domain.DisableCatalogPromotion{Code: job.Args.Code})
}

// RemoveWorker consumes remove commands.
type RemoveWorker struct {
	river.WorkerDefaults[RemoveArgs]
	handler *app.RemoveCatalogPromotionHandler
}

func (w *RemoveWorker) Work(ctx context.Context, job *river.Job[RemoveArgs]) error {
	return w.handler.Handle(ctx, domain.RemoveCatalogPromotion{Code: job.Args.Code})
}

// CreatedWorker consumes (possibly delayed) Created events. The fan-in
// state-changed listener runs first so the promotion picks up its
// processing marker before the full reaction settles state and recomputes.
type CreatedWorker struct {
	river.WorkerDefaults[CreatedArgs]
	stateChanged *app.CatalogPromotionStateChangedListener
	listener     *app.CatalogPromotionCreatedListener
}

func (w *CreatedWorker) Work(ctx context.Context, job *river.Job[CreatedArgs]) error {
	slog.InfoContext(ctx, "catalog promotion created event delivered",
		"code", job.Args.Code, "job_id", job.ID, "attempt", job.Attempt)

	if err := w.stateChanged.Handle(ctx, job.Args.Code); err != nil {
		return err
	}
	return w.listener.Handle(ctx, domain.CatalogPromotionCreated{Code: job.Args.Code})
}

// UpdatedWorker consumes Updated events.
type UpdatedWorker struct {
	river.WorkerDefaults[UpdatedArgs]
	stateChanged *app.CatalogPromotionStateChangedListener
	listener     *app.CatalogPromotionUpdatedListener
}

func (w *UpdatedWorker) Work(ctx context.Context, job *river.Job[UpdatedArgs]) error {
	slog.InfoContext(ctx, "catalog promotion updated event delivered",
		"code", job.Args.Code, "job_id", job.ID, "attempt", job.Attempt)

	if err := w.stateChanged.Handle(ctx, job.Args.Code); err != nil {
		return err
	}
	return w.listener.Handle(ctx, domain.CatalogPromotionUpdated{Code: job.Args.Code})
}

// EndedWorker consumes delayed Ended events.
type EndedWorker struct {
	river.WorkerDefaults[EndedArgs]
	stateChanged *app.CatalogPromotionStateChangedListener
	listener     *app.CatalogPromotionEndedListener
}

func (w *EndedWorker) Work(ctx context.Context, job *river.Job[EndedArgs]) error {
	slog.InfoContext(ctx, "catalog promotion ended event delivered",
		"code", job.Args.Code, "job_id", job.ID, "attempt", job.Attempt)

	if err := w.stateChanged.Handle(ctx, job.Args.Code); err != nil {
		return err
	}
	return w.listener.Handle(ctx, domain.CatalogPromotionEnded{Code: job.Args.Code})
}

// ProductCreatedWorker consumes product creation events.
type ProductCreatedWorker struct {
	river.WorkerDefaults[ProductCreatedArgs]
	listener *app.ProductCreatedListener
}

func (w *ProductCreatedWorker) Work(ctx context.Context, job *river.Job[ProductCreatedArgs]) error {
	return w.listener.Handle(ctx, domain.ProductCreated{Code: job.Args.Code})
}

// VariantUpdatedWorker consumes variant update events.
type VariantUpdatedWorker struct {
	river.WorkerDefaults[VariantUpdatedArgs]
	listener *app.ProductVariantUpdatedListener
}

func (w *VariantUpdatedWorker) Work(ctx context.Context, job *river.Job[VariantUpdatedArgs]) error {
	return w.listener.Handle(ctx, domain.ProductVariantUpdated{Code: job.Args.Code})
}
