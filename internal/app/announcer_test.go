package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/neomorfeo/promotiq/internal/app"
	"github.com/neomorfeo/promotiq/internal/clock"
	"github.com/neomorfeo/promotiq/internal/domain"
)

func newTestAnnouncer(now time.Time) (*app.Announcer, *recordingDispatcher) {
	dispatcher := &recordingDispatcher{}
	announcer := app.NewAnnouncer(dispatcher, app.NewIntervalDelayCalculator(), clock.NewFixed(now))
	return announcer, dispatcher
}

func TestDispatchCreated_FutureStartAndEnd(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)
	end := now.Add(72 * time.Hour)
	announcer, dispatcher := newTestAnnouncer(now)

	promotion := domain.CatalogPromotion{Code: "SALE", StartDate: &start, EndDate: &end}
	if err := announcer.DispatchCreated(context.Background(), promotion); err != nil {
		t.Fatalf("DispatchCreated failed: %v", err)
	}

	if len(dispatcher.dispatched) != 2 {
		t.Fatalf("dispatched %d messages, want 2: %v", len(dispatcher.dispatched), dispatcher.names())
	}

	created := dispatcher.dispatched[0]
	if created.msg.MessageName() != domain.NameCatalogPromotionCreated {
		t.Errorf("first message = %q, want %q", created.msg.MessageName(), domain.NameCatalogPromotionCreated)
	}
	if !created.delayed || created.delay != 24*time.Hour {
		t.Errorf("created delay = %v (delayed=%v), want 24h delayed", created.delay, created.delayed)
	}

	ended := dispatcher.dispatched[1]
	if ended.msg.MessageName() != domain.NameCatalogPromotionEnded {
		t.Errorf("second message = %q, want %q", ended.msg.MessageName(), domain.NameCatalogPromotionEnded)
	}
	if !ended.delayed || ended.delay != 72*time.Hour {
		t.Errorf("ended delay = %v (delayed=%v), want 72h delayed", ended.delay, ended.delayed)
	}
}

func TestDispatchCreated_NoDatesFiresImmediately(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	announcer, dispatcher := newTestAnnouncer(now)

	if err := announcer.DispatchCreated(context.Background(), domain.CatalogPromotion{Code: "SALE"}); err != nil {
		t.Fatalf("DispatchCreated failed: %v", err)
	}

	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d messages, want 1: %v", len(dispatcher.dispatched), dispatcher.names())
	}
	if dispatcher.dispatched[0].delay != 0 {
		t.Errorf("delay = %v, want 0", dispatcher.dispatched[0].delay)
	}
}

func TestDispatchCreated_PastStartCollapsesToZeroDelay(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	announcer, dispatcher := newTestAnnouncer(now)

	promotion := domain.CatalogPromotion{Code: "SALE", StartDate: &start}
	if err := announcer.DispatchCreated(context.Background(), promotion); err != nil {
		t.Fatalf("DispatchCreated failed: %v", err)
	}

	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d messages, want 1", len(dispatcher.dispatched))
	}
	if dispatcher.dispatched[0].delay != 0 {
		t.Errorf("delay = %v, want 0 for an elapsed start date", dispatcher.dispatched[0].delay)
	}
}

func TestDispatchUpdated_FutureStart(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	start := now.Add(12 * time.Hour)
	announcer, dispatcher := newTestAnnouncer(now)

	promotion := domain.CatalogPromotion{Code: "SALE", StartDate: &start}
	if err := announcer.DispatchUpdated(context.Background(), promotion); err != nil {
		t.Fatalf("DispatchUpdated failed: %v", err)
	}

	// Start is in the future: only the scheduled Updated event, no
	// immediate one.
	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d messages, want 1: %v", len(dispatcher.dispatched), dispatcher.names())
	}
	updated := dispatcher.dispatched[0]
	if updated.msg.MessageName() != domain.NameCatalogPromotionUpdated {
		t.Errorf("message = %q, want %q", updated.msg.MessageName(), domain.NameCatalogPromotionUpdated)
	}
	if !updated.delayed || updated.delay != 12*time.Hour {
		t.Errorf("delay = %v (delayed=%v), want 12h delayed", updated.delay, updated.delayed)
	}
}

func TestDispatchUpdated_ElapsedStartAddsImmediateEvent(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(48 * time.Hour)
	announcer, dispatcher := newTestAnnouncer(now)

	promotion := domain.CatalogPromotion{Code: "SALE", StartDate: &start, EndDate: &end}
	if err := announcer.DispatchUpdated(context.Background(), promotion); err != nil {
		t.Fatalf("DispatchUpdated failed: %v", err)
	}

	// Elapsed start: immediate Updated, zero-delay scheduled Updated,
	// scheduled Ended.
	if len(dispatcher.dispatched) != 3 {
		t.Fatalf("dispatched %d messages, want 3: %v", len(dispatcher.dispatched), dispatcher.names())
	}

	immediate := dispatcher.dispatched[0]
	if immediate.msg.MessageName() != domain.NameCatalogPromotionUpdated || immediate.delayed {
		t.Errorf("first message = %q delayed=%v, want immediate updated", immediate.msg.MessageName(), immediate.delayed)
	}

	scheduled := dispatcher.dispatched[1]
	if scheduled.msg.MessageName() != domain.NameCatalogPromotionUpdated || !scheduled.delayed || scheduled.delay != 0 {
		t.Errorf("second message = %q delayed=%v delay=%v, want zero-delay scheduled updated",
			scheduled.msg.MessageName(), scheduled.delayed, scheduled.delay)
	}

	ended := dispatcher.dispatched[2]
	if ended.msg.MessageName() != domain.NameCatalogPromotionEnded || ended.delay != 48*time.Hour {
		t.Errorf("third message = %q delay=%v, want ended delayed 48h", ended.msg.MessageName(), ended.delay)
	}
}

func TestDispatchUpdated_NoStartDateNoImmediateEvent(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	announcer, dispatcher := newTestAnnouncer(now)

	if err := announcer.DispatchUpdated(context.Background(), domain.CatalogPromotion{Code: "SALE"}); err != nil {
		t.Fatalf("DispatchUpdated failed: %v", err)
	}

	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d messages, want 1: %v", len(dispatcher.dispatched), dispatcher.names())
	}
	if !dispatcher.dispatched[0].delayed {
		t.Error("message should go through the scheduled path")
	}
}
