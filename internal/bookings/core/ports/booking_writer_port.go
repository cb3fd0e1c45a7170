package ports

import (
	"context"

	"booking-analytics-service/internal/bookings/core/domain"
)

type BookingWriterPort interface {
	// InsertBooking stores b and returns the store-assigned identity.
	InsertBooking(ctx context.Context, b *domain.Booking) (id string, err error)
}

type CityLocationPort interface {
	CountCityLocations(ctx context.Context) (int64, error)
	InsertCityLocations(ctx context.Context, locations []domain.CityLocation) error
}
