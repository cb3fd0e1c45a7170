package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/storage/mongodb"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCollection struct {
	InsertOneFn  func(ctx context.Context, doc any) (any, error)
	InsertManyFn func(ctx context.Context, docs []any) error
	CountFn      func(ctx context.Context, filter any) (int64, error)
}

func (f *fakeCollection) InsertOne(ctx context.Context, doc any) (any, error) {
	return f.InsertOneFn(ctx, doc)
}

func (f *fakeCollection) InsertMany(ctx context.Context, docs []any) error {
	return f.InsertManyFn(ctx, docs)
}

func (f *fakeCollection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	return f.CountFn(ctx, filter)
}

// ------------------------------------------------------------
// InsertBooking
// ------------------------------------------------------------

func TestInsertBooking_ReturnsHexID(t *testing.T) {
	oid := primitive.NewObjectID()
	var stored mongodb.BookingDocument
	coll := &fakeCollection{
		InsertOneFn: func(ctx context.Context, doc any) (any, error) {
			stored = doc.(mongodb.BookingDocument)
			return oid, nil
		},
	}
	repo := NewBookingRepository(coll, &fakeCollection{})

	id, err := repo.InsertBooking(context.Background(), &domain.Booking{
		Email:     "a@example.com",
		Location:  "Toronto",
		CreatedAt: "2024-03-01T24:15:00.000Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != oid.Hex() {
		t.Fatalf("expected id %s, got %s", oid.Hex(), id)
	}
	if stored.CreatedAt != "2024-03-01T24:15:00.000Z" {
		t.Fatalf("expected createdAt stored verbatim, got %v", stored.CreatedAt)
	}
	if stored.ID != nil {
		t.Fatalf("expected store-assigned id, got %v", stored.ID)
	}
}

func TestInsertBooking_Error(t *testing.T) {
	boom := errors.New("duplicate key")
	repo := NewBookingRepository(&fakeCollection{
		InsertOneFn: func(ctx context.Context, doc any) (any, error) { return nil, boom },
	}, &fakeCollection{})

	_, err := repo.InsertBooking(context.Background(), &domain.Booking{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

// ------------------------------------------------------------
// city locations
// ------------------------------------------------------------

func TestInsertCityLocations(t *testing.T) {
	var got []any
	locs := &fakeCollection{
		InsertManyFn: func(ctx context.Context, docs []any) error {
			got = docs
			return nil
		},
	}
	repo := NewBookingRepository(&fakeCollection{}, locs)

	seed := domain.DefaultCityLocations(time.Now())
	if err := repo.InsertCityLocations(context.Background(), seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(seed) {
		t.Fatalf("expected %d documents, got %d", len(seed), len(got))
	}
	first := got[0].(mongodb.CityLocationDocument)
	if first.City != seed[0].City || !first.IsActive {
		t.Fatalf("unexpected document %+v", first)
	}
}

func TestInsertCityLocations_EmptyIsNoop(t *testing.T) {
	repo := NewBookingRepository(&fakeCollection{}, &fakeCollection{})

	if err := repo.InsertCityLocations(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCountCityLocations(t *testing.T) {
	repo := NewBookingRepository(&fakeCollection{}, &fakeCollection{
		CountFn: func(ctx context.Context, filter any) (int64, error) { return 10, nil },
	})

	n, err := repo.CountCityLocations(context.Background())
	if err != nil || n != 10 {
		t.Fatalf("expected 10, nil; got %d, %v", n, err)
	}
}
