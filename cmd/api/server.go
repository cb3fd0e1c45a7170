package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	analyticsHttp "booking-analytics-service/internal/analytics/adapters/http/fiber"
	analyticsUsecase "booking-analytics-service/internal/analytics/core/usecase"
	bookingsUsecase "booking-analytics-service/internal/bookings/core/usecase"
	"booking-analytics-service/internal/config"
	wsHub "booking-analytics-service/internal/realtime/adapters/websocket"
	realtimeUsecase "booking-analytics-service/internal/realtime/core/usecase"
	"booking-analytics-service/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "booking-analytics-service/docs"
)

type server struct {
	app        *fiber.App
	hub        *wsHub.Hub
	dispatcher *realtimeUsecase.Dispatcher
}

// newServer wires the engine, hub and dispatcher over be and mounts every route.
// ctx bounds the lifetime of push connections.
func newServer(ctx context.Context, cfg config.Config, be *backend, logger *zap.Logger) *server {
	metrics := telemetry.New()

	engine := analyticsUsecase.NewEngine(be.reader, logger, analyticsUsecase.WithFailureObserver(metrics))
	hub := wsHub.NewHub(engine, logger, wsHub.WithObserver(metrics))
	dispatcher := realtimeUsecase.NewDispatcher(be.watcher, engine, hub, logger, realtimeUsecase.Config{
		PollInterval: cfg.PollInterval,
		RetryBackoff: cfg.RetryBackoff,
	})
	dispatcher.SetObserver(metrics)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowMethods: "GET,POST",
	}))

	app.Get("/health", analyticsHttp.Health)
	app.Get("/api/test", analyticsHttp.Ping)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	analyticsHandler := analyticsHttp.NewAnalyticsHandler(engine)
	analyticsHandler.RegisterRoutes(app.Group("/api/bookings"))

	wsHub.RegisterRoutes(ctx, app, "/ws", hub)

	return &server{
		app:        app,
		hub:        hub,
		dispatcher: dispatcher,
	}
}

func runServe(parent context.Context, g globalFlags) error {
	cfg, logger, err := setup(g)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := be.Close(closeCtx); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()

	seeded, err := bookingsUsecase.NewEnsureCityLocationsUseCase(be.writer).Execute(ctx)
	if err != nil {
		logger.Error("city location seeding failed", zap.Error(err))
	} else if seeded > 0 {
		logger.Info("seeded city locations", zap.Int("count", seeded))
	}

	srv := newServer(ctx, cfg, be, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		srv.dispatcher.Run(ctx)
	}()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.app.Listen(cfg.Addr())
	}()
	logger.Info("server started", zap.String("addr", cfg.Addr()))

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			logger.Error("fiber stopped", zap.Error(err))
		}
		stop()
	}

	logger.Info("shutting down...")

	srv.hub.Close()
	if err := srv.app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Warn("fiber shutdown error", zap.Error(err))
	}
	wg.Wait()

	logger.Info("server exiting")
	return nil
}
