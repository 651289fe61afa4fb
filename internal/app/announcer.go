package app

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/promotiq/internal/clock"
	"github.com/neomorfeo/promotiq/internal/domain"
)

// Announcer schedules a promotion's lifecycle events so that future start
// and end instants fire transitions without a running process waiting on
// them. The delay is stamped onto the message and consumed by the
// transport; nothing here sleeps.
type Announcer struct {
	dispatcher domain.MessageDispatcher
	delays     domain.DelayStampCalculator
	clock      clock.Clock
}

// NewAnnouncer creates the lifecycle event announcer.
func NewAnnouncer(dispatcher domain.MessageDispatcher, delays domain.DelayStampCalculator, c clock.Clock) *Announcer {
	return &Announcer{dispatcher: dispatcher, delays: delays, clock: c}
}

// DispatchCreated schedules the Created event delayed until the promotion's
// start date (immediately when the start date is unset or already past),
// plus an Ended event delayed until the end date when one is set.
func (a *Announcer) DispatchCreated(ctx context.Context, promotion domain.CatalogPromotion) error {
	now := a.clock.Now()

	created := domain.CatalogPromotionCreated{Code: promotion.Code}
	if err := a.dispatcher.DispatchAfter(ctx, created, a.startDelay(now, promotion)); err != nil {
		return fmt.Errorf("scheduling created event for %q: %w", promotion.Code, err)
	}

	return a.scheduleEnd(ctx, now, promotion)
}

// DispatchUpdated schedules the Updated event delayed until the start date,
// plus the optional Ended event. When the start date has already elapsed it
// additionally emits an immediate Updated event: an edit to an
// already-started promotion must take effect now, not at the original start
// instant. This asymmetry with DispatchCreated is deliberate.
func (a *Announcer) DispatchUpdated(ctx context.Context, promotion domain.CatalogPromotion) error {
	now := a.clock.Now()
	updated := domain.CatalogPromotionUpdated{Code: promotion.Code}

	if promotion.StartDate != nil && promotion.StartDate.Before(now) {
		if err := a.dispatcher.Dispatch(ctx, updated); err != nil {
			return fmt.Errorf("dispatching immediate updated event for %q: %w", promotion.Code, err)
		}
	}

	if err := a.dispatcher.DispatchAfter(ctx, updated, a.startDelay(now, promotion)); err != nil {
		return fmt.Errorf("scheduling updated event for %q: %w", promotion.Code, err)
	}

	return a.scheduleEnd(ctx, now, promotion)
}

// scheduleEnd schedules the Ended event when an end date is set. With no
// end date the promotion runs indefinitely until disabled or removed, so no
// end event is ever scheduled.
func (a *Announcer) scheduleEnd(ctx context.Context, now time.Time, promotion domain.CatalogPromotion) error {
	if promotion.EndDate == nil {
		return nil
	}

	ended := domain.CatalogPromotionEnded{Code: promotion.Code}
	if err := a.dispatcher.DispatchAfter(ctx, ended, a.delays.Calculate(now, *promotion.EndDate)); err != nil {
		return fmt.Errorf("scheduling ended event for %q: %w", promotion.Code, err)
	}
	return nil
}

func (a *Announcer) startDelay(now time.Time, promotion domain.CatalogPromotion) time.Duration {
	if promotion.StartDate == nil {
		return 0
	}
	return a.delays.Calculate(now, *promotion.StartDate)
}
