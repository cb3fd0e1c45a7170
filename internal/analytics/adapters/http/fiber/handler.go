package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"booking-analytics-service/internal/analytics/adapters/dto"
	"booking-analytics-service/internal/analytics/core/domain"
	"booking-analytics-service/internal/analytics/core/usecase"
	bookings "booking-analytics-service/internal/bookings/core/domain"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsEngine is the part of the aggregation engine the REST handlers use.
type AnalyticsEngine interface {
	RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error)
	OverallStats(ctx context.Context) (*domain.OverallStats, error)
	CityLeaderboard(ctx context.Context) ([]domain.CityCount, error)
	GroupSizes(ctx context.Context) (domain.GroupSizeStats, error)
	DailyStats(ctx context.Context, days int) ([]domain.DailyStat, error)
	Heatmap(ctx context.Context) ([]domain.HeatmapDay, error)
	MonthlyTrends(ctx context.Context, months int) ([]domain.MonthlyTrend, error)
	TopCities(ctx context.Context) ([]domain.CityPerformance, error)
	LocationMap(ctx context.Context) ([]domain.LocationPoint, error)
	CityMonthlyBreakdown(ctx context.Context, city string) ([]domain.CityMonth, error)
	UpcomingByCity(ctx context.Context) ([]domain.CityUpcoming, error)
}

type AnalyticsHandler struct {
	engine AnalyticsEngine
}

func NewAnalyticsHandler(engine AnalyticsEngine) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine}
}

// RegisterRoutes mounts every analytics endpoint on router.
func (h *AnalyticsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/recent", h.GetRecent)
	router.Get("/stats", h.GetStats)
	router.Get("/cities", h.GetCities)
	router.Get("/group-sizes", h.GetGroupSizes)
	router.Get("/daily", h.GetDaily)
	router.Get("/heatmap", h.GetHeatmap)
	router.Get("/trends", h.GetTrends)
	router.Get("/top-cities", h.GetTopCities)
	router.Get("/locations", h.GetLocations)
	router.Get("/city/:cityName/monthly", h.GetCityMonthly)
	router.Get("/upcoming-by-city", h.GetUpcomingByCity)
}

var errBadQuery = errors.New("invalid query parameter")

// intQuery reads an optional integer parameter. A missing value yields def.
func intQuery(c *fiber.Ctx, name string, def, lo, hi int) (int, error) {
	raw := c.Query(name, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be an integer between %d and %d", errBadQuery, name, lo, hi)
	}
	return n, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}

func (h *AnalyticsHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidLimit),
		errors.Is(err, usecase.ErrInvalidWindow),
		errors.Is(err, usecase.ErrInvalidCity),
		errors.Is(err, usecase.ErrInvalidDate):
		return badRequest(c, err)
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_server_error",
			Message: "Failed to compute analytics",
		})
	}
}

// GetRecent godoc
// @Summary Recent bookings
// @Description Newest bookings first, with normalized creation timestamps
// @Tags Bookings
// @Produce json
// @Param limit query int false "Number of bookings (1-100)" default(10)
// @Success 200 {array} dto.BookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/recent [get]
func (h *AnalyticsHandler) GetRecent(c *fiber.Ctx) error {
	limit, err := intQuery(c, "limit", usecase.DefaultRecentLimit, 1, usecase.MaxRecentLimit)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := h.engine.RecentBookings(c.Context(), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewBookingsResponse(res))
}

// GetStats godoc
// @Summary Overall statistics
// @Tags Bookings
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/stats [get]
func (h *AnalyticsHandler) GetStats(c *fiber.Ctx) error {
	res, err := h.engine.OverallStats(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewStatsResponse(res))
}

// GetCities godoc
// @Summary City leaderboard
// @Tags Bookings
// @Produce json
// @Success 200 {array} dto.CityStatResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/cities [get]
func (h *AnalyticsHandler) GetCities(c *fiber.Ctx) error {
	res, err := h.engine.CityLeaderboard(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewCityStatsResponse(res))
}

// GetGroupSizes godoc
// @Summary Single vs group bookings
// @Tags Bookings
// @Produce json
// @Success 200 {object} dto.GroupSizeResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/group-sizes [get]
func (h *AnalyticsHandler) GetGroupSizes(c *fiber.Ctx) error {
	res, err := h.engine.GroupSizes(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewGroupSizeResponse(res))
}

// GetDaily godoc
// @Summary Daily rollup
// @Description Per creation day over the trailing window; days without bookings are omitted
// @Tags Bookings
// @Produce json
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {array} dto.DailyStatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/daily [get]
func (h *AnalyticsHandler) GetDaily(c *fiber.Ctx) error {
	days, err := intQuery(c, "days", usecase.DefaultDailyDays, 1, usecase.MaxDailyDays)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := h.engine.DailyStats(c.Context(), days)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewDailyStatsResponse(res))
}

// GetHeatmap godoc
// @Summary Booking heatmap
// @Description Per-day counts over the last 365 days; missing days are absent
// @Tags Bookings
// @Produce json
// @Success 200 {array} dto.HeatmapDayResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/heatmap [get]
func (h *AnalyticsHandler) GetHeatmap(c *fiber.Ctx) error {
	res, err := h.engine.Heatmap(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewHeatmapResponse(res))
}

// GetTrends godoc
// @Summary Monthly trends
// @Tags Bookings
// @Produce json
// @Param months query int false "Window in months (1-60)" default(12)
// @Success 200 {array} dto.TrendResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/trends [get]
func (h *AnalyticsHandler) GetTrends(c *fiber.Ctx) error {
	months, err := intQuery(c, "months", usecase.DefaultTrendMonths, 1, usecase.MaxTrendMonths)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := h.engine.MonthlyTrends(c.Context(), months)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewTrendsResponse(res))
}

// GetTopCities godoc
// @Summary Top cities with six-month breakdown
// @Tags Bookings
// @Produce json
// @Success 200 {array} dto.TopCityResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/top-cities [get]
func (h *AnalyticsHandler) GetTopCities(c *fiber.Ctx) error {
	res, err := h.engine.TopCities(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewTopCitiesResponse(res))
}

// GetLocations godoc
// @Summary City map points
// @Tags Bookings
// @Produce json
// @Success 200 {array} dto.LocationResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/locations [get]
func (h *AnalyticsHandler) GetLocations(c *fiber.Ctx) error {
	res, err := h.engine.LocationMap(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewLocationsResponse(res))
}

// GetCityMonthly godoc
// @Summary Six-month breakdown for one city
// @Tags Bookings
// @Produce json
// @Param cityName path string true "City name"
// @Success 200 {array} dto.CityMonthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/city/{cityName}/monthly [get]
func (h *AnalyticsHandler) GetCityMonthly(c *fiber.Ctx) error {
	res, err := h.engine.CityMonthlyBreakdown(c.Context(), c.Params("cityName"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewCityMonthsResponse(res))
}

// GetUpcomingByCity godoc
// @Summary Upcoming appointments per city
// @Description Appointments booked in the last month, earliest first, at most 150 per city
// @Tags Bookings
// @Produce json
// @Success 200 {array} dto.CityUpcomingResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/bookings/upcoming-by-city [get]
func (h *AnalyticsHandler) GetUpcomingByCity(c *fiber.Ctx) error {
	res, err := h.engine.UpcomingByCity(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.NewUpcomingResponse(res))
}
