package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/promotiq/internal/adapter/fsm"
	handler "github.com/neomorfeo/promotiq/internal/adapter/http"
	"github.com/neomorfeo/promotiq/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/promotiq/internal/adapter/river"
	"github.com/neomorfeo/promotiq/internal/adapter/sqlite"
	"github.com/neomorfeo/promotiq/internal/app"
	"github.com/neomorfeo/promotiq/internal/clock"
	"github.com/neomorfeo/promotiq/internal/config"
	"github.com/neomorfeo/promotiq/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	setupLogging(cfg.LogLevel)

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		log.Fatalf("otel: %v", err)
	}

	// --- Adapters (out) ---
	db, err := otel.OpenDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	promotions := otel.NewTracingPromotionRepository(sqlite.NewCatalogPromotionRepository(db))
	products := sqlite.NewProductRepository(db)
	variants := sqlite.NewProductVariantRepository(db)

	dispatcher := riveradapter.NewDispatcher()
	tracedDispatcher := otel.NewTracingDispatcher(dispatcher)

	// --- Application ---
	sysClock := clock.NewSystem()
	resolver := fsm.New()
	eligibility := app.NewTimeWindowEligibilityChecker(sysClock)
	provider := app.NewActiveCatalogPromotionsProvider(promotions)

	states := app.NewStateProcessor(promotions, eligibility, resolver)
	applyHandler := app.NewApplyCatalogPromotionsOnVariantsHandler(
		variants, provider, app.NewClearer(), app.NewDiscountApplicator())

	allVariants := app.NewAllProductVariantsProcessor(variants, tracedDispatcher, cfg.BatchSize)
	productProcessor := app.NewProductProcessor(variants, tracedDispatcher, cfg.BatchSize)
	variantProcessor := app.NewProductVariantProcessor(tracedDispatcher, cfg.BatchSize)

	updateState := app.NewUpdateCatalogPromotionStateHandler(promotions, states)
	disable := app.NewDisableCatalogPromotionHandler(promotions, states, allVariants)
	remove := app.NewRemoveCatalogPromotionHandler(promotions, allVariants)

	bus := app.NewSyncBus()
	bus.Register(domain.NameUpdateCatalogPromotionState, func(ctx context.Context, msg domain.Message) error {
		return updateState.Handle(ctx, msg.(domain.UpdateCatalogPromotionState))
	})

	announcer := app.NewAnnouncer(tracedDispatcher, app.NewIntervalDelayCalculator(), sysClock)
	removal := app.NewRemovalProcessor(promotions, app.NewRemovalAnnouncer(tracedDispatcher))

	promotionSvc := app.NewCatalogPromotionService(promotions, announcer, removal)
	catalogSvc := app.NewCatalogService(products, variants, tracedDispatcher)

	// --- Queue ---
	client, err := riveradapter.Setup(ctx, db, riveradapter.Handlers{
		Apply:        applyHandler,
		UpdateState:  updateState,
		Disable:      disable,
		Remove:       remove,
		StateChanged: app.NewCatalogPromotionStateChangedListener(bus),
		Created:      app.NewCatalogPromotionCreatedListener(promotions, bus, allVariants),
		Updated:      app.NewCatalogPromotionUpdatedListener(promotions, bus, allVariants),
		Ended:        app.NewCatalogPromotionEndedListener(promotions, bus, allVariants),
		Product:      app.NewProductCreatedListener(products, productProcessor),
		Variant:      app.NewProductVariantUpdatedListener(variants, variantProcessor),
	})
	if err != nil {
		log.Fatalf("river: %v", err)
	}
	dispatcher.Bind(client)

	if err := client.Start(ctx); err != nil {
		log.Fatalf("river start: %v", err)
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("promotiq", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("promotiq", "0.1.0"))
	handler.Register(api, promotionSvc, catalogSvc)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("promotiq listening", "port", cfg.Port)
		slog.Info("API docs available", "url", "http://localhost:"+cfg.Port+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-done
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	if err := client.Stop(shutdownCtx); err != nil {
		slog.Error("river shutdown", "error", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		slog.Error("otel shutdown", "error", err)
	}

	slog.Info("stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
