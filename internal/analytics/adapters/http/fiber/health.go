package fiber

import (
	"net/http"
	"time"

	"booking-analytics-service/internal/bookings/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(HealthResponse{
		Status:    "OK",
		Timestamp: domain.FormatTimestamp(time.Now()),
	})
}

func Ping(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "API is working"})
}
