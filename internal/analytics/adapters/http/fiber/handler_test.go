package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "booking-analytics-service/internal/analytics/adapters/http/fiber"
	"booking-analytics-service/internal/analytics/core/domain"
	"booking-analytics-service/internal/analytics/core/usecase"
	bookings "booking-analytics-service/internal/bookings/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Fake engine implementing the interface the handlers depend on.
type fakeEngine struct {
	RecentFn    func(ctx context.Context, limit int) ([]bookings.Booking, error)
	StatsFn     func(ctx context.Context) (*domain.OverallStats, error)
	CitiesFn    func(ctx context.Context) ([]domain.CityCount, error)
	DailyFn     func(ctx context.Context, days int) ([]domain.DailyStat, error)
	TrendsFn    func(ctx context.Context, months int) ([]domain.MonthlyTrend, error)
	CityMonthFn func(ctx context.Context, city string) ([]domain.CityMonth, error)

	calls int
}

func (f *fakeEngine) RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error) {
	f.calls++
	if f.RecentFn != nil {
		return f.RecentFn(ctx, limit)
	}
	return nil, nil
}

func (f *fakeEngine) OverallStats(ctx context.Context) (*domain.OverallStats, error) {
	f.calls++
	if f.StatsFn != nil {
		return f.StatsFn(ctx)
	}
	return &domain.OverallStats{}, nil
}

func (f *fakeEngine) CityLeaderboard(ctx context.Context) ([]domain.CityCount, error) {
	f.calls++
	if f.CitiesFn != nil {
		return f.CitiesFn(ctx)
	}
	return nil, nil
}

func (f *fakeEngine) GroupSizes(ctx context.Context) (domain.GroupSizeStats, error) {
	f.calls++
	return domain.GroupSizeStats{Total: 3, Single: 2, Group: 1}, nil
}

func (f *fakeEngine) DailyStats(ctx context.Context, days int) ([]domain.DailyStat, error) {
	f.calls++
	if f.DailyFn != nil {
		return f.DailyFn(ctx, days)
	}
	return nil, nil
}

func (f *fakeEngine) Heatmap(ctx context.Context) ([]domain.HeatmapDay, error) {
	f.calls++
	return []domain.HeatmapDay{{Date: "2025-05-01", Bookings: 50, IsHotDay: true}}, nil
}

func (f *fakeEngine) MonthlyTrends(ctx context.Context, months int) ([]domain.MonthlyTrend, error) {
	f.calls++
	if f.TrendsFn != nil {
		return f.TrendsFn(ctx, months)
	}
	return nil, nil
}

func (f *fakeEngine) TopCities(ctx context.Context) ([]domain.CityPerformance, error) {
	f.calls++
	return nil, nil
}

func (f *fakeEngine) LocationMap(ctx context.Context) ([]domain.LocationPoint, error) {
	f.calls++
	return []domain.LocationPoint{{City: "Toronto", Lat: 43.6532, Lng: -79.3832, Bookings: 4, Growth: "+100%"}}, nil
}

func (f *fakeEngine) CityMonthlyBreakdown(ctx context.Context, city string) ([]domain.CityMonth, error) {
	f.calls++
	if f.CityMonthFn != nil {
		return f.CityMonthFn(ctx, city)
	}
	return nil, nil
}

func (f *fakeEngine) UpcomingByCity(ctx context.Context) ([]domain.CityUpcoming, error) {
	f.calls++
	return nil, nil
}

func setupApp(t *testing.T, engine httpadapter.AnalyticsEngine) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{UnescapePath: true})
	h := httpadapter.NewAnalyticsHandler(engine)
	h.RegisterRoutes(app.Group("/api/bookings"))
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}

// ------------------------------------------------------------
// /recent
// ------------------------------------------------------------

func TestGetRecent_DefaultLimit(t *testing.T) {
	engine := &fakeEngine{
		RecentFn: func(ctx context.Context, limit int) ([]bookings.Booking, error) {
			if limit != usecase.DefaultRecentLimit {
				t.Fatalf("expected default limit %d, got %d", usecase.DefaultRecentLimit, limit)
			}
			return []bookings.Booking{{
				ID:              "b1",
				Email:           "someone@example.com",
				AppointmentDate: "10/05/2025",
				AppointmentTime: "09:30",
				Location:        "Toronto",
				GroupSize:       "single",
				CreatedAt:       "2025-05-01T10:00:00.000Z",
			}}, nil
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/recent")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(body))
	}
	if body[0]["_id"] != "b1" || body[0]["location"] != "Toronto" {
		t.Fatalf("unexpected booking payload: %v", body[0])
	}
	if _, ok := body[0]["email"]; ok {
		t.Fatalf("email must not be exposed")
	}
}

func TestGetRecent_ExplicitLimit(t *testing.T) {
	engine := &fakeEngine{
		RecentFn: func(ctx context.Context, limit int) ([]bookings.Booking, error) {
			if limit != 25 {
				t.Fatalf("expected limit 25, got %d", limit)
			}
			return nil, nil
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/recent?limit=25")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body == nil || len(body) != 0 {
		t.Fatalf("expected an empty array, got %v", body)
	}
}

func TestGetRecent_InvalidLimit(t *testing.T) {
	for _, q := range []string{"abc", "0", "101", "-3"} {
		engine := &fakeEngine{}
		app := setupApp(t, engine)

		resp := doGet(t, app, "/api/bookings/recent?limit="+q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected status 400, got %d", q, resp.StatusCode)
		}
		if engine.calls != 0 {
			t.Fatalf("limit=%s: engine should not be called", q)
		}

		var body httpadapter.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error != "invalid_request" {
			t.Fatalf("expected invalid_request, got %s", body.Error)
		}
	}
}

// ------------------------------------------------------------
// /stats and failures
// ------------------------------------------------------------

func TestGetStats_Success(t *testing.T) {
	updated := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	engine := &fakeEngine{
		StatsFn: func(ctx context.Context) (*domain.OverallStats, error) {
			return &domain.OverallStats{TotalUsers: 1003, TotalAppointmentsBooked: 1007, LastUpdated: updated}, nil
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/stats")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["totalUsers"] != float64(1003) {
		t.Fatalf("expected totalUsers=1003, got %v", body["totalUsers"])
	}
	if body["totalAppointmentsBooked"] != float64(1007) {
		t.Fatalf("expected totalAppointmentsBooked=1007, got %v", body["totalAppointmentsBooked"])
	}
}

func TestGetStats_InternalError(t *testing.T) {
	engine := &fakeEngine{
		StatsFn: func(ctx context.Context) (*domain.OverallStats, error) {
			return nil, errors.New("db down")
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/stats")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}

	var body httpadapter.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "internal_server_error" {
		t.Fatalf("expected internal_server_error, got %s", body.Error)
	}
}

func TestGetCities_InternalError(t *testing.T) {
	engine := &fakeEngine{
		CitiesFn: func(ctx context.Context) ([]domain.CityCount, error) {
			return nil, errors.New("aggregate failed")
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/cities")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// windowed views
// ------------------------------------------------------------

func TestGetDaily_WindowParsing(t *testing.T) {
	var got int
	engine := &fakeEngine{
		DailyFn: func(ctx context.Context, days int) ([]domain.DailyStat, error) {
			got = days
			return []domain.DailyStat{{Date: "2025-05-01", Appointments: 2}}, nil
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/daily")
	if resp.StatusCode != http.StatusOK || got != usecase.DefaultDailyDays {
		t.Fatalf("expected default window %d with 200, got %d with %d", usecase.DefaultDailyDays, got, resp.StatusCode)
	}

	resp = doGet(t, app, "/api/bookings/daily?days=7")
	if resp.StatusCode != http.StatusOK || got != 7 {
		t.Fatalf("expected window 7 with 200, got %d with %d", got, resp.StatusCode)
	}

	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	classes, ok := body[0]["popularVisaClasses"].([]any)
	if !ok || len(classes) != 0 {
		t.Fatalf("expected empty popularVisaClasses array, got %v", body[0]["popularVisaClasses"])
	}

	resp = doGet(t, app, "/api/bookings/daily?days=366")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestGetTrends_EngineValidationError(t *testing.T) {
	engine := &fakeEngine{
		TrendsFn: func(ctx context.Context, months int) ([]domain.MonthlyTrend, error) {
			return nil, usecase.ErrInvalidWindow
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/trends?months=6")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	resp = doGet(t, app, "/api/bookings/trends?months=61")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// path parameter
// ------------------------------------------------------------

func TestGetCityMonthly_UnescapesCity(t *testing.T) {
	engine := &fakeEngine{
		CityMonthFn: func(ctx context.Context, city string) ([]domain.CityMonth, error) {
			if city != "Quebec City" {
				t.Fatalf("expected city=Quebec City, got %q", city)
			}
			return []domain.CityMonth{{Month: "May", Year: 2025, Bookings: 3, MonthYear: "May 2025"}}, nil
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/city/Quebec%20City/monthly")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body []httpCityMonth
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].MonthYear != "May 2025" || body[0].Bookings != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetCityMonthly_InvalidCity(t *testing.T) {
	engine := &fakeEngine{
		CityMonthFn: func(ctx context.Context, city string) ([]domain.CityMonth, error) {
			return nil, usecase.ErrInvalidCity
		},
	}
	app := setupApp(t, engine)

	resp := doGet(t, app, "/api/bookings/city/%20/monthly")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

type httpCityMonth struct {
	Month     string `json:"month"`
	Year      int    `json:"year"`
	Bookings  int64  `json:"bookings"`
	MonthYear string `json:"monthYear"`
}

// ------------------------------------------------------------
// fixed views
// ------------------------------------------------------------

func TestFixedViews_Succeed(t *testing.T) {
	app := setupApp(t, &fakeEngine{})

	for _, path := range []string{
		"/api/bookings/group-sizes",
		"/api/bookings/heatmap",
		"/api/bookings/top-cities",
		"/api/bookings/locations",
		"/api/bookings/upcoming-by-city",
	} {
		resp := doGet(t, app, path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestGetHeatmap_Shape(t *testing.T) {
	app := setupApp(t, &fakeEngine{})

	resp := doGet(t, app, "/api/bookings/heatmap")
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["isHotDay"] != true || body[0]["date"] != "2025-05-01" {
		t.Fatalf("unexpected heatmap: %v", body)
	}
}
