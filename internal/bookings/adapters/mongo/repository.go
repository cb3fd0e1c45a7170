package mongo

import (
	"context"
	"fmt"

	"booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/bookings/core/ports"
	"booking-analytics-service/internal/storage/mongodb"

	"go.mongodb.org/mongo-driver/bson"
)

type BookingRepository struct {
	bookings  Collection
	locations Collection
}

func NewBookingRepository(bookings, locations Collection) *BookingRepository {
	return &BookingRepository{bookings: bookings, locations: locations}
}

var (
	_ ports.BookingWriterPort = (*BookingRepository)(nil)
	_ ports.CityLocationPort  = (*BookingRepository)(nil)
)

func (r *BookingRepository) InsertBooking(ctx context.Context, b *domain.Booking) (string, error) {
	id, err := r.bookings.InsertOne(ctx, mongodb.NewBookingDocument(b))
	if err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return mongodb.IDString(id), nil
}

func (r *BookingRepository) CountCityLocations(ctx context.Context) (int64, error) {
	return r.locations.CountDocuments(ctx, bson.D{})
}

func (r *BookingRepository) InsertCityLocations(ctx context.Context, locations []domain.CityLocation) error {
	if len(locations) == 0 {
		return nil
	}
	docs := make([]any, 0, len(locations))
	for _, l := range locations {
		docs = append(docs, mongodb.NewCityLocationDocument(l))
	}
	if err := r.locations.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert city locations: %w", err)
	}
	return nil
}
