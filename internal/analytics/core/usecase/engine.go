package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"booking-analytics-service/internal/analytics/core/domain"
	"booking-analytics-service/internal/analytics/core/ports"
	bookings "booking-analytics-service/internal/bookings/core/domain"

	"go.uber.org/zap"
)

var (
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidWindow = errors.New("invalid window")
	ErrInvalidCity   = errors.New("invalid city")
	ErrInvalidDate   = errors.New("invalid date")
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
	DefaultDailyDays   = 30
	MaxDailyDays       = 365
	DefaultTrendMonths = 12
	MaxTrendMonths     = 60

	heatmapDays         = 365
	breakdownMonths     = 6
	topCitiesLimit      = 10
	upcomingPerCity     = 150
	activityWindowDays  = 30
	trendSuccessRate    = 100
	viewRecent          = "recent"
	viewTotal           = "total"
	viewStats           = "stats"
	viewCities          = "cities"
	viewGroupSizes      = "group_sizes"
	viewDaily           = "daily"
	viewHeatmap         = "heatmap"
	viewTrends          = "trends"
	viewTopCities       = "top_cities"
	viewLocations       = "locations"
	viewCityMonthly     = "city_monthly"
	viewUpcoming        = "upcoming"
	viewAppointmentHits = "appointment_count"
)

// FailureObserver is notified whenever a view could not be computed.
type FailureObserver interface {
	AggregationFailed(view string)
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithFailureObserver(o FailureObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// Engine derives every analytics view on demand from the booking store. Nothing is
// cached; two calls with no intervening insert return identical results.
type Engine struct {
	reader   ports.AnalyticsReaderPort
	logger   *zap.Logger
	now      func() time.Time
	observer FailureObserver
}

func NewEngine(reader ports.AnalyticsReaderPort, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		reader: reader,
		logger: logger.Named("aggregation"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) fail(view string, err error) {
	e.logger.Error("aggregation failed", zap.String("view", view), zap.Error(err))
	if e.observer != nil {
		e.observer.AggregationFailed(view)
	}
}

// RecentBookings returns up to limit bookings, newest first. A zero limit selects the
// default.
func (e *Engine) RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error) {
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	if limit < 0 || limit > MaxRecentLimit {
		return nil, ErrInvalidLimit
	}

	out, err := e.reader.RecentBookings(ctx, limit)
	if err != nil {
		e.fail(viewRecent, err)
		return nil, err
	}
	return out, nil
}

// BookingCount is the raw number of stored bookings, without the base offset.
func (e *Engine) BookingCount(ctx context.Context) (int64, error) {
	n, err := e.reader.CountBookings(ctx)
	if err != nil {
		e.fail(viewTotal, err)
		return 0, err
	}
	return n, nil
}

// TotalUsers reads the externally maintained user count.
func (e *Engine) TotalUsers(ctx context.Context) (int64, error) {
	c, err := e.reader.DashboardCounters(ctx)
	if err != nil {
		e.fail(viewStats, err)
		return 0, err
	}
	return c.Users(), nil
}

// counters degrades to an empty document when the store cannot be read.
func (e *Engine) counters(ctx context.Context) *bookings.DashboardCounters {
	c, err := e.reader.DashboardCounters(ctx)
	if err != nil {
		e.fail(viewStats, err)
		return nil
	}
	return c
}

func (e *Engine) countSince(ctx context.Context, now time.Time, d time.Duration) int64 {
	n, err := e.reader.CountCreatedBetween(ctx, now.Add(-d), now)
	if err != nil {
		e.fail(viewStats, err)
		return 0
	}
	return n
}

// OverallStats assembles the statistics object. Only the booking count is required;
// the windowed counts and dashboard counters fall back to zero.
func (e *Engine) OverallStats(ctx context.Context) (*domain.OverallStats, error) {
	now := e.now().UTC()

	count, err := e.BookingCount(ctx)
	if err != nil {
		return nil, err
	}

	c := e.counters(ctx)
	var newUsers, downloadsToday, downloadsWeek int64
	if c != nil {
		newUsers = bookings.ParseCounter(c.NewUsersThisMonth)
		downloadsToday = bookings.ParseCounter(c.DownloadsToday)
		downloadsWeek = bookings.ParseCounter(c.DownloadsThisWeek)
	}

	return &domain.OverallStats{
		TotalUsers:              c.Users(),
		ActiveToday:             e.countSince(ctx, now, 24*time.Hour),
		AppointmentsThisWeek:    e.countSince(ctx, now, 7*24*time.Hour),
		AppointmentsThisMonth:   e.countSince(ctx, now, 30*24*time.Hour),
		NewUsersThisMonth:       newUsers,
		DownloadsToday:          downloadsToday,
		DownloadsThisWeek:       downloadsWeek,
		TotalAppointmentsBooked: count + c.BaseOffset(),
		LastUpdated:             now,
	}, nil
}

// CityLeaderboard lists every city with its booking count, highest first.
func (e *Engine) CityLeaderboard(ctx context.Context) ([]domain.CityCount, error) {
	out, err := e.reader.CityCounts(ctx)
	if err != nil {
		e.fail(viewCities, err)
		return nil, err
	}
	return out, nil
}

func (e *Engine) GroupSizes(ctx context.Context) (domain.GroupSizeStats, error) {
	out, err := e.reader.GroupSizeCounts(ctx)
	if err != nil {
		e.fail(viewGroupSizes, err)
		return domain.GroupSizeStats{}, err
	}
	return out, nil
}

// DailyStats rolls bookings up per creation day over the trailing days window.
// Days without bookings are absent.
func (e *Engine) DailyStats(ctx context.Context, days int) ([]domain.DailyStat, error) {
	if days == 0 {
		days = DefaultDailyDays
	}
	if days < 0 || days > MaxDailyDays {
		return nil, ErrInvalidWindow
	}

	since := e.now().UTC().AddDate(0, 0, -days)
	out, err := e.reader.DailyStats(ctx, since)
	if err != nil {
		e.fail(viewDaily, err)
		return nil, err
	}
	return out, nil
}

// Heatmap returns per-day counts over the trailing 365 days. Callers fill the gaps.
func (e *Engine) Heatmap(ctx context.Context) ([]domain.HeatmapDay, error) {
	since := e.now().UTC().AddDate(0, 0, -heatmapDays)

	counts, err := e.reader.DailyCounts(ctx, since)
	if err != nil {
		e.fail(viewHeatmap, err)
		return nil, err
	}

	out := make([]domain.HeatmapDay, 0, len(counts))
	for _, c := range counts {
		out = append(out, domain.HeatmapDay{
			Date:     c.Date,
			Bookings: c.Bookings,
			IsHotDay: domain.IsHotDay(c.Bookings),
		})
	}
	return out, nil
}

// MonthlyTrends groups bookings per calendar month over the trailing months and adds a
// running cumulative total in chronological order.
func (e *Engine) MonthlyTrends(ctx context.Context, months int) ([]domain.MonthlyTrend, error) {
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 0 || months > MaxTrendMonths {
		return nil, ErrInvalidWindow
	}

	since := domain.MonthStart(e.now(), -(months - 1))
	counts, err := e.reader.MonthlyCounts(ctx, since)
	if err != nil {
		e.fail(viewTrends, err)
		return nil, err
	}

	out := make([]domain.MonthlyTrend, 0, len(counts))
	var cumulative int64
	for _, c := range counts {
		cumulative += c.Bookings
		out = append(out, domain.MonthlyTrend{
			Year:               c.Year,
			Month:              c.Month,
			Label:              domain.MonthAbbrev(c.Month),
			Bookings:           c.Bookings,
			Users:              c.Users,
			SuccessRate:        trendSuccessRate,
			CumulativeBookings: cumulative,
		})
	}
	return out, nil
}

// TopCities ranks the ten busiest cities of the trailing six months. Each city carries
// exactly six month keys, zero-filled.
func (e *Engine) TopCities(ctx context.Context) ([]domain.CityPerformance, error) {
	now := e.now()
	months := domain.TrailingMonths(now, breakdownMonths)

	totals, err := e.reader.TopCityMonthlyTotals(ctx, months[0], topCitiesLimit)
	if err != nil {
		e.fail(viewTopCities, err)
		return nil, err
	}

	out := make([]domain.CityPerformance, 0, len(totals))
	for _, t := range totals {
		breakdown := make(map[string]int64, breakdownMonths)
		for _, m := range months {
			breakdown[domain.MonthKey(m.Year(), int(m.Month()))] = 0
		}
		for _, m := range t.Months {
			key := domain.MonthKey(m.Year, m.Month)
			if _, ok := breakdown[key]; ok {
				breakdown[key] = m.Bookings
			}
		}
		out = append(out, domain.CityPerformance{
			City:             t.City,
			TotalBookings:    t.TotalBookings,
			MonthlyBreakdown: breakdown,
		})
	}
	return out, nil
}

// LocationMap joins per-city activity with registered coordinates. Cities without an
// active location are dropped.
func (e *Engine) LocationMap(ctx context.Context) ([]domain.LocationPoint, error) {
	now := e.now().UTC()
	window := ports.ActivityWindow{
		RecentSince:   now.AddDate(0, 0, -activityWindowDays),
		PreviousSince: now.AddDate(0, 0, -2*activityWindowDays),
	}

	activity, err := e.reader.CityActivity(ctx, window)
	if err != nil {
		e.fail(viewLocations, err)
		return nil, err
	}

	locations, err := e.reader.ActiveCityLocations(ctx)
	if err != nil {
		e.fail(viewLocations, err)
		return nil, err
	}
	byCity := make(map[string]bookings.CityLocation, len(locations))
	for _, l := range locations {
		byCity[l.City] = l
	}

	out := make([]domain.LocationPoint, 0, len(activity))
	for _, a := range activity {
		loc, ok := byCity[a.City]
		if !ok {
			e.logger.Warn("no coordinates for city", zap.String("city", a.City))
			continue
		}
		out = append(out, domain.LocationPoint{
			City:           a.City,
			Lat:            loc.Lat,
			Lng:            loc.Lng,
			Bookings:       a.TotalBookings,
			Users:          a.Users,
			Growth:         domain.Growth(a.RecentBookings, a.PreviousPeriodBookings),
			RecentBookings: a.RecentBookings,
		})
	}
	return out, nil
}

// CityMonthlyBreakdown always returns six entries, oldest first.
func (e *Engine) CityMonthlyBreakdown(ctx context.Context, city string) ([]domain.CityMonth, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrInvalidCity
	}

	months := domain.TrailingMonths(e.now(), breakdownMonths)
	counts, err := e.reader.CityMonthlyCounts(ctx, city, months[0])
	if err != nil {
		e.fail(viewCityMonthly, err)
		return nil, err
	}

	byKey := make(map[string]int64, len(counts))
	for _, c := range counts {
		byKey[domain.MonthKey(c.Year, c.Month)] = c.Bookings
	}

	out := make([]domain.CityMonth, 0, breakdownMonths)
	for _, m := range months {
		year, month := m.Year(), int(m.Month())
		label := domain.MonthAbbrev(month)
		out = append(out, domain.CityMonth{
			Month:     label,
			Year:      year,
			Bookings:  byKey[domain.MonthKey(year, month)],
			MonthYear: label + " " + m.Format("2006"),
		})
	}
	return out, nil
}

// UpcomingByCity lists appointments booked during the last month, earliest appointment
// first, grouped per city.
func (e *Engine) UpcomingByCity(ctx context.Context) ([]domain.CityUpcoming, error) {
	f := ports.UpcomingFilter{
		CreatedSince: e.now().UTC().AddDate(0, -1, 0),
		PerCityLimit: upcomingPerCity,
	}

	out, err := e.reader.UpcomingByCity(ctx, f)
	if err != nil {
		e.fail(viewUpcoming, err)
		return nil, err
	}
	return out, nil
}

// CountForAppointment counts bookings for city created on createdDay (YYYY-MM-DD) whose
// appointment date is appointmentDate (DD/MM/YYYY).
func (e *Engine) CountForAppointment(ctx context.Context, city, createdDay, appointmentDate string) (int64, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return 0, ErrInvalidCity
	}
	day, err := time.Parse(domain.DayLayout, createdDay)
	if err != nil {
		return 0, ErrInvalidDate
	}
	if _, err := time.Parse(bookings.AppointmentDateLayout, appointmentDate); err != nil {
		return 0, ErrInvalidDate
	}

	n, err := e.reader.CountForAppointment(ctx, ports.AppointmentCountFilter{
		City:            city,
		CreatedFrom:     day,
		CreatedTo:       day.AddDate(0, 0, 1),
		AppointmentDate: appointmentDate,
	})
	if err != nil {
		e.fail(viewAppointmentHits, err)
		return 0, err
	}
	return n, nil
}
