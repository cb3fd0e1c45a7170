package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"booking-analytics-service/internal/analytics/core/ports"
	"booking-analytics-service/internal/bookings/core/domain"
	realtime "booking-analytics-service/internal/realtime/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(t *testing.T, s *Store, b domain.Booking) string {
	t.Helper()
	id, err := s.InsertBooking(context.Background(), &b)
	require.NoError(t, err)
	return id
}

func TestStore_InsertAssignsIDs(t *testing.T) {
	s := New()
	a := add(t, s, domain.Booking{Location: "Toronto", CreatedAt: "2025-05-01T10:00:00.000Z"})
	b := add(t, s, domain.Booking{Location: "Toronto", CreatedAt: "2025-05-01T11:00:00.000Z"})
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.InsertBooking(ctx, &domain.Booking{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_RecentNormalizesAndOrders(t *testing.T) {
	s := New()
	add(t, s, domain.Booking{ID: "x", Location: "Toronto", CreatedAt: "2024-03-01T24:15:00.000Z"})
	add(t, s, domain.Booking{Location: "Ottawa", CreatedAt: "2024-03-01T23:00:00.000Z"})
	add(t, s, domain.Booking{Location: "Nowhere", CreatedAt: "garbage"})

	recent, err := s.RecentBookings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Toronto", recent[0].Location)
	assert.Equal(t, "2024-03-02T00:15:00.000Z", recent[0].CreatedAt)
	assert.NotEqual(t, "x", recent[0].ID)

	// raw count includes records with unparseable timestamps
	n, err := s.CountBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	one, err := s.RecentBookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestStore_DailyStatsVisaClasses(t *testing.T) {
	s := New()
	for _, vc := range []string{"J-1", "", "B1/B2", "F-1", "H-1B", "F-1"} {
		add(t, s, domain.Booking{Location: "Toronto", Email: "a@x", VisaClass: vc, GroupSize: domain.GroupSizeGroup, CreatedAt: "2025-05-01T10:00:00.000Z"})
	}

	daily, err := s.DailyStats(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, []string{"B1/B2", "F-1", "H-1B"}, daily[0].PopularVisaClasses)
	assert.Equal(t, int64(6), daily[0].Appointments)
	assert.Equal(t, int64(1), daily[0].Users)
	assert.Equal(t, int64(6), daily[0].GroupSizes.Group)
}

func TestStore_CityLocationsAndCounters(t *testing.T) {
	s := New()
	ctx := context.Background()

	locs := domain.DefaultCityLocations(time.Now())
	locs[0].IsActive = false
	require.NoError(t, s.InsertCityLocations(ctx, locs))

	n, err := s.CountCityLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	active, err := s.ActiveCityLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 9)

	c, err := s.DashboardCounters(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	s.SetDashboardCounters(domain.DashboardCounters{TotalUsers: "12"})
	c, err = s.DashboardCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardKey, c.Key)
	assert.Equal(t, int64(12), c.Users())
}

func TestStore_UpcomingPerCityLimit(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		add(t, s, domain.Booking{
			Location:        "Toronto",
			AppointmentDate: "10/05/2025",
			AppointmentTime: fmt.Sprintf("%02d:00", 5+i),
			CreatedAt:       "2025-05-01T10:00:00.000Z",
		})
	}

	up, err := s.UpcomingByCity(context.Background(), ports.UpcomingFilter{
		CreatedSince: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PerCityLimit: 2,
	})
	require.NoError(t, err)
	require.Len(t, up, 1)
	assert.Equal(t, int64(5), up[0].TotalUpcoming)
	require.Len(t, up[0].Appointments, 2)
	assert.Equal(t, "05:00", up[0].Appointments[0].AppointmentTime)
	assert.Equal(t, "06:00", up[0].Appointments[1].AppointmentTime)
}

func TestStore_WatchUnsupported(t *testing.T) {
	s := New()

	_, err := s.WatchBookingInserts(context.Background())
	assert.True(t, errors.Is(err, realtime.ErrWatchUnsupported))

	_, err = s.WatchDashboardCounters(context.Background())
	assert.True(t, errors.Is(err, realtime.ErrWatchUnsupported))
}
