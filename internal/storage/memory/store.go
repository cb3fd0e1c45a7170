// Package memory is an in-process booking store. It answers every analytics query in Go
// with the same normalization rules as the document store, but offers no change
// subscription, so a dispatcher running on top of it always polls.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	analytics "booking-analytics-service/internal/analytics/core/domain"
	"booking-analytics-service/internal/analytics/core/ports"
	"booking-analytics-service/internal/bookings/core/domain"
	writer "booking-analytics-service/internal/bookings/core/ports"
	realtime "booking-analytics-service/internal/realtime/core/ports"

	"github.com/google/uuid"
)

var (
	_ ports.AnalyticsReaderPort = (*Store)(nil)
	_ writer.BookingWriterPort  = (*Store)(nil)
	_ writer.CityLocationPort   = (*Store)(nil)
	_ realtime.WatcherPort      = (*Store)(nil)
)

type Store struct {
	mu        sync.RWMutex
	bookings  []domain.Booking
	locations []domain.CityLocation
	counters  *domain.DashboardCounters
}

func New() *Store {
	return &Store{}
}

// ------------------------------------------------------------
// writes
// ------------------------------------------------------------

func (s *Store) InsertBooking(ctx context.Context, b *domain.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	cp.ID = uuid.NewString()
	s.bookings = append(s.bookings, cp)
	return cp.ID, nil
}

func (s *Store) CountCityLocations(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.locations)), nil
}

func (s *Store) InsertCityLocations(ctx context.Context, locations []domain.CityLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, locations...)
	return nil
}

// SetDashboardCounters replaces the counters document.
func (s *Store) SetDashboardCounters(c domain.DashboardCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Key = domain.DashboardKey
	s.counters = &c
}

// ------------------------------------------------------------
// change subscription
// ------------------------------------------------------------

func (s *Store) WatchBookingInserts(ctx context.Context) (realtime.ChangeStream[domain.Booking], error) {
	return nil, realtime.ErrWatchUnsupported
}

func (s *Store) WatchDashboardCounters(ctx context.Context) (realtime.ChangeStream[domain.DashboardCounters], error) {
	return nil, realtime.ErrWatchUnsupported
}

// ------------------------------------------------------------
// reads
// ------------------------------------------------------------

type entry struct {
	booking domain.Booking
	created time.Time
}

// entries returns the bookings whose creation timestamp parses, with the normalized time.
func (s *Store) entries() []entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entry, 0, len(s.bookings))
	for _, b := range s.bookings {
		t, err := domain.NormalizeCreatedAt(b.CreatedAt)
		if err != nil {
			continue
		}
		out = append(out, entry{booking: b, created: t})
	}
	return out
}

func within(t, from time.Time) bool {
	return !t.Before(from)
}

func (s *Store) RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	es := s.entries()
	sort.SliceStable(es, func(i, j int) bool { return es[i].created.After(es[j].created) })
	if len(es) > limit {
		es = es[:limit]
	}

	out := make([]domain.Booking, 0, len(es))
	for _, e := range es {
		b := e.booking
		b.CreatedAt = domain.FormatTimestamp(e.created)
		out = append(out, b)
	}
	return out, nil
}

func (s *Store) CountBookings(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.bookings)), nil
}

func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, e := range s.entries() {
		if within(e.created, from) && e.created.Before(to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountForAppointment(ctx context.Context, f ports.AppointmentCountFilter) (int64, error) {
	var n int64
	for _, e := range s.entries() {
		if e.booking.Location != f.City || e.booking.AppointmentDate != f.AppointmentDate {
			continue
		}
		if within(e.created, f.CreatedFrom) && e.created.Before(f.CreatedTo) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DashboardCounters(ctx context.Context) (*domain.DashboardCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.counters == nil {
		return nil, nil
	}
	cp := *s.counters
	return &cp, nil
}

func (s *Store) ActiveCityLocations(ctx context.Context) ([]domain.CityLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CityLocation, 0, len(s.locations))
	for _, l := range s.locations {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) CityCounts(ctx context.Context) ([]analytics.CityCount, error) {
	s.mu.RLock()
	counts := map[string]int64{}
	for _, b := range s.bookings {
		if b.Location != "" {
			counts[b.Location]++
		}
	}
	s.mu.RUnlock()

	out := make([]analytics.CityCount, 0, len(counts))
	for city, n := range counts {
		out = append(out, analytics.CityCount{City: city, Bookings: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].City < out[j].City
	})
	return out, nil
}

func (s *Store) GroupSizeCounts(ctx context.Context) (analytics.GroupSizeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st analytics.GroupSizeStats
	for _, b := range s.bookings {
		switch b.GroupSize {
		case domain.GroupSizeSingle:
			st.Single++
		case domain.GroupSizeGroup:
			st.Group++
		}
		st.Total++
	}
	return st, nil
}

type dayBucket struct {
	appointments int64
	singles      int64
	users        map[string]struct{}
	cities       map[string]struct{}
	visaClasses  map[string]struct{}
}

func (s *Store) DailyStats(ctx context.Context, since time.Time) ([]analytics.DailyStat, error) {
	buckets := map[string]*dayBucket{}
	for _, e := range s.entries() {
		if !within(e.created, since) {
			continue
		}
		key := analytics.DayKey(e.created)
		bk, ok := buckets[key]
		if !ok {
			bk = &dayBucket{
				users:       map[string]struct{}{},
				cities:      map[string]struct{}{},
				visaClasses: map[string]struct{}{},
			}
			buckets[key] = bk
		}
		bk.appointments++
		if e.booking.IsSingle() {
			bk.singles++
		}
		bk.users[e.booking.Email] = struct{}{}
		bk.cities[e.booking.Location] = struct{}{}
		if e.booking.VisaClass != "" {
			bk.visaClasses[e.booking.VisaClass] = struct{}{}
		}
	}

	out := make([]analytics.DailyStat, 0, len(buckets))
	for day, bk := range buckets {
		out = append(out, analytics.DailyStat{
			Date:               day,
			Appointments:       bk.appointments,
			Users:              int64(len(bk.users)),
			Cities:             int64(len(bk.cities)),
			PopularVisaClasses: firstSorted(bk.visaClasses, 3),
			GroupSizes: analytics.GroupSplit{
				Single: bk.singles,
				Group:  bk.appointments - bk.singles,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func firstSorted(set map[string]struct{}, n int) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func (s *Store) DailyCounts(ctx context.Context, since time.Time) ([]analytics.DayCount, error) {
	counts := map[string]int64{}
	for _, e := range s.entries() {
		if within(e.created, since) {
			counts[analytics.DayKey(e.created)]++
		}
	}

	out := make([]analytics.DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, analytics.DayCount{Date: day, Bookings: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type monthKey struct {
	year, month int
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: int(t.Month())}
}

func sortMonths(ms []analytics.MonthCount) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Year != ms[j].Year {
			return ms[i].Year < ms[j].Year
		}
		return ms[i].Month < ms[j].Month
	})
}

func (s *Store) MonthlyCounts(ctx context.Context, since time.Time) ([]analytics.MonthCount, error) {
	counts := map[monthKey]int64{}
	users := map[monthKey]map[string]struct{}{}
	for _, e := range s.entries() {
		if !within(e.created, since) {
			continue
		}
		k := keyOf(e.created)
		counts[k]++
		if users[k] == nil {
			users[k] = map[string]struct{}{}
		}
		users[k][e.booking.Email] = struct{}{}
	}

	out := make([]analytics.MonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, analytics.MonthCount{
			Year:     k.year,
			Month:    k.month,
			Bookings: n,
			Users:    int64(len(users[k])),
		})
	}
	sortMonths(out)
	return out, nil
}

func (s *Store) TopCityMonthlyTotals(ctx context.Context, since time.Time, limit int) ([]analytics.CityMonthlyTotals, error) {
	perCity := map[string]map[monthKey]int64{}
	for _, e := range s.entries() {
		if e.booking.Location == "" || !within(e.created, since) {
			continue
		}
		if perCity[e.booking.Location] == nil {
			perCity[e.booking.Location] = map[monthKey]int64{}
		}
		perCity[e.booking.Location][keyOf(e.created)]++
	}

	out := make([]analytics.CityMonthlyTotals, 0, len(perCity))
	for city, months := range perCity {
		t := analytics.CityMonthlyTotals{City: city}
		for k, n := range months {
			t.TotalBookings += n
			t.Months = append(t.Months, analytics.MonthCount{Year: k.year, Month: k.month, Bookings: n})
		}
		sortMonths(t.Months)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBookings != out[j].TotalBookings {
			return out[i].TotalBookings > out[j].TotalBookings
		}
		return out[i].City < out[j].City
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CityMonthlyCounts(ctx context.Context, city string, since time.Time) ([]analytics.MonthCount, error) {
	counts := map[monthKey]int64{}
	for _, e := range s.entries() {
		if e.booking.Location == city && within(e.created, since) {
			counts[keyOf(e.created)]++
		}
	}

	out := make([]analytics.MonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, analytics.MonthCount{Year: k.year, Month: k.month, Bookings: n})
	}
	sortMonths(out)
	return out, nil
}

func (s *Store) CityActivity(ctx context.Context, w ports.ActivityWindow) ([]analytics.CityActivity, error) {
	byCity := map[string]*analytics.CityActivity{}
	users := map[string]map[string]struct{}{}
	for _, e := range s.entries() {
		city := e.booking.Location
		if city == "" {
			continue
		}
		a, ok := byCity[city]
		if !ok {
			a = &analytics.CityActivity{City: city}
			byCity[city] = a
			users[city] = map[string]struct{}{}
		}
		a.TotalBookings++
		switch {
		case within(e.created, w.RecentSince):
			a.RecentBookings++
		case within(e.created, w.PreviousSince):
			a.PreviousPeriodBookings++
		}
		users[city][e.booking.Email] = struct{}{}
	}

	out := make([]analytics.CityActivity, 0, len(byCity))
	for city, a := range byCity {
		a.Users = int64(len(users[city]))
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBookings != out[j].TotalBookings {
			return out[i].TotalBookings > out[j].TotalBookings
		}
		return out[i].City < out[j].City
	})
	return out, nil
}

func (s *Store) UpcomingByCity(ctx context.Context, f ports.UpcomingFilter) ([]analytics.CityUpcoming, error) {
	var appts []struct {
		city string
		appt analytics.UpcomingAppointment
	}
	for _, e := range s.entries() {
		b := e.booking
		if b.Location == "" || b.AppointmentDate == "" || b.AppointmentTime == "" || !within(e.created, f.CreatedSince) {
			continue
		}
		at, err := domain.ParseAppointment(b.AppointmentDate, b.AppointmentTime)
		if err != nil {
			continue
		}
		appts = append(appts, struct {
			city string
			appt analytics.UpcomingAppointment
		}{
			city: b.Location,
			appt: analytics.UpcomingAppointment{
				AppointmentDate:     b.AppointmentDate,
				AppointmentTime:     b.AppointmentTime,
				AppointmentDateTime: at,
				VisaClass:           b.VisaClass,
				GroupSize:           b.GroupSize,
				CreatedAt:           domain.FormatTimestamp(e.created),
			},
		})
	}
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].appt.AppointmentDateTime.Before(appts[j].appt.AppointmentDateTime)
	})

	byCity := map[string]*analytics.CityUpcoming{}
	var order []string
	for _, a := range appts {
		c, ok := byCity[a.city]
		if !ok {
			c = &analytics.CityUpcoming{City: a.city}
			byCity[a.city] = c
			order = append(order, a.city)
		}
		c.TotalUpcoming++
		if len(c.Appointments) < f.PerCityLimit {
			c.Appointments = append(c.Appointments, a.appt)
		}
	}

	out := make([]analytics.CityUpcoming, 0, len(order))
	for _, city := range order {
		out = append(out, *byCity[city])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalUpcoming != out[j].TotalUpcoming {
			return out[i].TotalUpcoming > out[j].TotalUpcoming
		}
		return out[i].City < out[j].City
	})
	return out, nil
}
