package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-analytics-service/internal/analytics/core/domain"
	"booking-analytics-service/internal/analytics/core/ports"
	bookings "booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/storage/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Cursor interface {
	All(ctx context.Context, results any) error
	Close(ctx context.Context) error
}

type Collection interface {
	Aggregate(ctx context.Context, pipeline any) (Cursor, error)
	Find(ctx context.Context, filter any) (Cursor, error)
	FindOne(ctx context.Context, filter any, out any) error
	CountDocuments(ctx context.Context, filter any) (int64, error)
}

// AnalyticsRepository answers the analytics queries with aggregation pipelines over the
// bookings collection, plus point reads of the counters and city-location collections.
type AnalyticsRepository struct {
	bookings  Collection
	dashboard Collection
	locations Collection
}

func NewAnalyticsRepository(bookings, dashboard, locations Collection) *AnalyticsRepository {
	return &AnalyticsRepository{bookings: bookings, dashboard: dashboard, locations: locations}
}

func all[T any](ctx context.Context, cur Cursor, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func (r *AnalyticsRepository) aggregate(ctx context.Context, p mongo.Pipeline) (Cursor, error) {
	cur, err := r.bookings.Aggregate(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return cur, nil
}

type countRow struct {
	N int64 `bson:"n"`
}

func (r *AnalyticsRepository) count(ctx context.Context, p mongo.Pipeline) (int64, error) {
	cur, err := r.aggregate(ctx, p)
	rows, err := all[countRow](ctx, cur, err)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}

func (r *AnalyticsRepository) RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error) {
	cur, err := r.aggregate(ctx, recentPipeline(limit))
	docs, err := all[mongodb.BookingDocument](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]bookings.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToDomain())
	}
	return out, nil
}

func (r *AnalyticsRepository) CountBookings(ctx context.Context) (int64, error) {
	return r.bookings.CountDocuments(ctx, bson.D{})
}

func (r *AnalyticsRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, createdBetweenPipeline(from, to))
}

func (r *AnalyticsRepository) CountForAppointment(ctx context.Context, f ports.AppointmentCountFilter) (int64, error) {
	return r.count(ctx, appointmentCountPipeline(f))
}

func (r *AnalyticsRepository) DashboardCounters(ctx context.Context) (*bookings.DashboardCounters, error) {
	var doc mongodb.DashboardDocument
	err := r.dashboard.FindOne(ctx, bson.D{{"Key", bookings.DashboardKey}}, &doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dashboard: %w", err)
	}
	c := doc.ToDomain()
	return &c, nil
}

func (r *AnalyticsRepository) ActiveCityLocations(ctx context.Context) ([]bookings.CityLocation, error) {
	cur, err := r.locations.Find(ctx, bson.D{{"isActive", true}})
	docs, err := all[mongodb.CityLocationDocument](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]bookings.CityLocation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToDomain())
	}
	return out, nil
}

type cityCountRow struct {
	City     string `bson:"city"`
	Bookings int64  `bson:"bookings"`
}

func (r *AnalyticsRepository) CityCounts(ctx context.Context) ([]domain.CityCount, error) {
	cur, err := r.aggregate(ctx, cityCountsPipeline())
	rows, err := all[cityCountRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CityCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CityCount{City: row.City, Bookings: row.Bookings})
	}
	return out, nil
}

type groupSizeRow struct {
	Total  int64 `bson:"total"`
	Single int64 `bson:"single"`
	Group  int64 `bson:"group"`
}

func (r *AnalyticsRepository) GroupSizeCounts(ctx context.Context) (domain.GroupSizeStats, error) {
	cur, err := r.aggregate(ctx, groupSizePipeline())
	rows, err := all[groupSizeRow](ctx, cur, err)
	if err != nil {
		return domain.GroupSizeStats{}, err
	}
	if len(rows) == 0 {
		return domain.GroupSizeStats{}, nil
	}
	return domain.GroupSizeStats{Total: rows[0].Total, Single: rows[0].Single, Group: rows[0].Group}, nil
}

type dailyRow struct {
	Date               string   `bson:"date"`
	Appointments       int64    `bson:"appointments"`
	Users              int64    `bson:"users"`
	Cities             int64    `bson:"cities"`
	PopularVisaClasses []string `bson:"popularVisaClasses"`
	GroupSizes         struct {
		Single int64 `bson:"single"`
		Group  int64 `bson:"group"`
	} `bson:"groupSizes"`
}

func (r *AnalyticsRepository) DailyStats(ctx context.Context, since time.Time) ([]domain.DailyStat, error) {
	cur, err := r.aggregate(ctx, dailyStatsPipeline(since))
	rows, err := all[dailyRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DailyStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DailyStat{
			Date:               row.Date,
			Appointments:       row.Appointments,
			Users:              row.Users,
			Cities:             row.Cities,
			PopularVisaClasses: row.PopularVisaClasses,
			GroupSizes:         domain.GroupSplit{Single: row.GroupSizes.Single, Group: row.GroupSizes.Group},
		})
	}
	return out, nil
}

type dayCountRow struct {
	Date     string `bson:"date"`
	Bookings int64  `bson:"bookings"`
}

func (r *AnalyticsRepository) DailyCounts(ctx context.Context, since time.Time) ([]domain.DayCount, error) {
	cur, err := r.aggregate(ctx, dailyCountsPipeline(since))
	rows, err := all[dayCountRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DayCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayCount{Date: row.Date, Bookings: row.Bookings})
	}
	return out, nil
}

type monthRow struct {
	Year     int   `bson:"year"`
	Month    int   `bson:"month"`
	Bookings int64 `bson:"bookings"`
	Users    int64 `bson:"users"`
}

func (m monthRow) toDomain() domain.MonthCount {
	return domain.MonthCount{Year: m.Year, Month: m.Month, Bookings: m.Bookings, Users: m.Users}
}

func toMonths(rows []monthRow) []domain.MonthCount {
	out := make([]domain.MonthCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

func (r *AnalyticsRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]domain.MonthCount, error) {
	cur, err := r.aggregate(ctx, monthlyCountsPipeline(since))
	rows, err := all[monthRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	return toMonths(rows), nil
}

type cityTotalsRow struct {
	City          string     `bson:"city"`
	TotalBookings int64      `bson:"totalBookings"`
	Months        []monthRow `bson:"months"`
}

func (r *AnalyticsRepository) TopCityMonthlyTotals(ctx context.Context, since time.Time, limit int) ([]domain.CityMonthlyTotals, error) {
	cur, err := r.aggregate(ctx, topCitiesPipeline(since, limit))
	rows, err := all[cityTotalsRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CityMonthlyTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CityMonthlyTotals{
			City:          row.City,
			TotalBookings: row.TotalBookings,
			Months:        toMonths(row.Months),
		})
	}
	return out, nil
}

func (r *AnalyticsRepository) CityMonthlyCounts(ctx context.Context, city string, since time.Time) ([]domain.MonthCount, error) {
	cur, err := r.aggregate(ctx, cityMonthlyPipeline(city, since))
	rows, err := all[monthRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	return toMonths(rows), nil
}

type activityRow struct {
	City                   string `bson:"city"`
	TotalBookings          int64  `bson:"totalBookings"`
	RecentBookings         int64  `bson:"recentBookings"`
	PreviousPeriodBookings int64  `bson:"previousPeriodBookings"`
	Users                  int64  `bson:"users"`
}

func (r *AnalyticsRepository) CityActivity(ctx context.Context, w ports.ActivityWindow) ([]domain.CityActivity, error) {
	cur, err := r.aggregate(ctx, cityActivityPipeline(w))
	rows, err := all[activityRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CityActivity, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CityActivity(row))
	}
	return out, nil
}

type upcomingRow struct {
	City         string `bson:"city"`
	Appointments []struct {
		AppointmentDate     string    `bson:"appointmentDate"`
		AppointmentTime     string    `bson:"appointmentTime"`
		AppointmentDateTime time.Time `bson:"appointmentDateTime"`
		VisaClass           string    `bson:"visaClass"`
		GroupSize           string    `bson:"groupSize"`
		CreatedAt           string    `bson:"createdAt"`
	} `bson:"appointments"`
	TotalUpcoming int64 `bson:"totalUpcoming"`
}

func (r *AnalyticsRepository) UpcomingByCity(ctx context.Context, f ports.UpcomingFilter) ([]domain.CityUpcoming, error) {
	cur, err := r.aggregate(ctx, upcomingPipeline(f))
	rows, err := all[upcomingRow](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CityUpcoming, 0, len(rows))
	for _, row := range rows {
		c := domain.CityUpcoming{City: row.City, TotalUpcoming: row.TotalUpcoming}
		for _, a := range row.Appointments {
			c.Appointments = append(c.Appointments, domain.UpcomingAppointment{
				AppointmentDate:     a.AppointmentDate,
				AppointmentTime:     a.AppointmentTime,
				AppointmentDateTime: a.AppointmentDateTime.UTC(),
				VisaClass:           a.VisaClass,
				GroupSize:           a.GroupSize,
				CreatedAt:           a.CreatedAt,
			})
		}
		out = append(out, c)
	}
	return out, nil
}
