package mongo

import (
	"context"
	"errors"
	"fmt"

	bookings "booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/realtime/core/ports"
	"booking-analytics-service/internal/storage/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// codeChangeStreamNotSupported is returned by standalone servers.
const codeChangeStreamNotSupported = 40573

// Watchable is satisfied by *mongo.Collection.
type Watchable interface {
	Watch(ctx context.Context, pipeline any, opts ...*options.ChangeStreamOptions) (*mongo.ChangeStream, error)
}

// Watcher opens change streams on the bookings and counters collections.
type Watcher struct {
	bookings  Watchable
	dashboard Watchable
}

func NewWatcher(bookings, dashboard Watchable) *Watcher {
	return &Watcher{bookings: bookings, dashboard: dashboard}
}

func bookingInsertsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{{"operationType", "insert"}}}},
	}
}

func dashboardUpdatesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{
			{"operationType", bson.D{{"$in", bson.A{"update", "replace"}}}},
			{"fullDocument.Key", bookings.DashboardKey},
		}}},
	}
}

func (w *Watcher) WatchBookingInserts(ctx context.Context) (ports.ChangeStream[bookings.Booking], error) {
	cs, err := w.bookings.Watch(ctx, bookingInsertsPipeline())
	if err != nil {
		return nil, classify(err)
	}
	return newStream(cs, decodeBooking), nil
}

func (w *Watcher) WatchDashboardCounters(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := w.dashboard.Watch(ctx, dashboardUpdatesPipeline(), opts)
	if err != nil {
		return nil, classify(err)
	}
	return newStream(cs, decodeCounters), nil
}

func classify(err error) error {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeChangeStreamNotSupported {
		return fmt.Errorf("%w: %v", ports.ErrWatchUnsupported, err)
	}
	return fmt.Errorf("watch: %w", err)
}

func decodeBooking(raw bson.Raw) (bookings.Booking, error) {
	var doc mongodb.BookingDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return bookings.Booking{}, err
	}
	return doc.ToDomain(), nil
}

func decodeCounters(raw bson.Raw) (bookings.DashboardCounters, error) {
	var doc mongodb.DashboardDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return bookings.DashboardCounters{}, err
	}
	return doc.ToDomain(), nil
}
