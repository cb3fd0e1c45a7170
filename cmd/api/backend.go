package main

import (
	"context"
	"fmt"

	analyticsMongo "booking-analytics-service/internal/analytics/adapters/mongo"
	analyticsPorts "booking-analytics-service/internal/analytics/core/ports"
	bookingsMongo "booking-analytics-service/internal/bookings/adapters/mongo"
	bookingsPorts "booking-analytics-service/internal/bookings/core/ports"
	"booking-analytics-service/internal/config"
	realtimeMongo "booking-analytics-service/internal/realtime/adapters/mongo"
	realtimePorts "booking-analytics-service/internal/realtime/core/ports"
	"booking-analytics-service/internal/storage/memory"
	"booking-analytics-service/internal/storage/mongodb"

	"go.uber.org/zap"
)

type bookingStore interface {
	bookingsPorts.BookingWriterPort
	bookingsPorts.CityLocationPort
}

// backend bundles the store-facing ports for the selected driver.
type backend struct {
	writer  bookingStore
	reader  analyticsPorts.AnalyticsReaderPort
	watcher realtimePorts.WatcherPort

	client *mongodb.Client // nil for the memory driver
}

func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		store := memory.New()
		return &backend{writer: store, reader: store, watcher: store}, nil
	}

	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("mongodb: %w", err)
	}
	logger.Info("connected to mongodb", zap.String("db", cfg.DBName))

	bookings := client.Collection(mongodb.BookingsCollection)
	dashboard := client.Collection(mongodb.DashboardCollection)
	locations := client.Collection(mongodb.CityLocationsCollection)

	return &backend{
		writer: bookingsMongo.NewBookingRepository(
			bookingsMongo.NewCollection(bookings),
			bookingsMongo.NewCollection(locations),
		),
		reader: analyticsMongo.NewAnalyticsRepository(
			analyticsMongo.NewCollection(bookings),
			analyticsMongo.NewCollection(dashboard),
			analyticsMongo.NewCollection(locations),
		),
		watcher: realtimeMongo.NewWatcher(bookings, dashboard),
		client:  client,
	}, nil
}

func (b *backend) Close(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return b.client.Close(ctx)
}
