package ports

import (
	"context"
	"errors"

	analytics "booking-analytics-service/internal/analytics/core/domain"
	bookings "booking-analytics-service/internal/bookings/core/domain"
)

// ErrWatchUnsupported is returned when the store cannot open a change subscription.
var ErrWatchUnsupported = errors.New("change subscription unsupported")

// ChangeStream yields decoded change notifications in store order.
type ChangeStream[T any] interface {
	Next(ctx context.Context) bool
	Current() T
	Err() error
	Close(ctx context.Context) error
}

type WatcherPort interface {
	// WatchBookingInserts notifies on every inserted booking.
	WatchBookingInserts(ctx context.Context) (ChangeStream[bookings.Booking], error)
	// WatchDashboardCounters notifies on updates or replacements of the counters document.
	WatchDashboardCounters(ctx context.Context) (ChangeStream[bookings.DashboardCounters], error)
}

// ViewSource is the subset of the aggregation engine used by the push path.
type ViewSource interface {
	RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error)
	BookingCount(ctx context.Context) (int64, error)
	TotalUsers(ctx context.Context) (int64, error)
	OverallStats(ctx context.Context) (*analytics.OverallStats, error)
	CityLeaderboard(ctx context.Context) ([]analytics.CityCount, error)
}

type Broadcaster interface {
	Broadcast(event string, payload any)
}
