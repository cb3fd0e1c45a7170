package ports

import (
	"context"
	"time"

	"booking-analytics-service/internal/analytics/core/domain"
	bookings "booking-analytics-service/internal/bookings/core/domain"
)

// ActivityWindow splits the trailing period used by the location map into a recent
// window [RecentSince, now) and a previous window [PreviousSince, RecentSince).
type ActivityWindow struct {
	RecentSince   time.Time
	PreviousSince time.Time
}

type UpcomingFilter struct {
	CreatedSince time.Time
	PerCityLimit int
}

type AppointmentCountFilter struct {
	City            string
	CreatedFrom     time.Time
	CreatedTo       time.Time
	AppointmentDate string // DD/MM/YYYY, matched verbatim
}

// AnalyticsReaderPort is one named query per derived view. Every creation-time bucket or
// window is computed on the normalized creation timestamp.
type AnalyticsReaderPort interface {
	// RecentBookings returns the newest bookings first with CreatedAt re-emitted in
	// normalized form.
	RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error)
	CountBookings(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountForAppointment(ctx context.Context, f AppointmentCountFilter) (int64, error)

	// DashboardCounters returns nil, nil when the counters document does not exist.
	DashboardCounters(ctx context.Context) (*bookings.DashboardCounters, error)
	ActiveCityLocations(ctx context.Context) ([]bookings.CityLocation, error)

	CityCounts(ctx context.Context) ([]domain.CityCount, error)
	GroupSizeCounts(ctx context.Context) (domain.GroupSizeStats, error)
	DailyStats(ctx context.Context, since time.Time) ([]domain.DailyStat, error)
	DailyCounts(ctx context.Context, since time.Time) ([]domain.DayCount, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]domain.MonthCount, error)
	TopCityMonthlyTotals(ctx context.Context, since time.Time, limit int) ([]domain.CityMonthlyTotals, error)
	CityMonthlyCounts(ctx context.Context, city string, since time.Time) ([]domain.MonthCount, error)
	CityActivity(ctx context.Context, w ActivityWindow) ([]domain.CityActivity, error)
	UpcomingByCity(ctx context.Context, f UpcomingFilter) ([]domain.CityUpcoming, error)
}
