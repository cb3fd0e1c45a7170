package usecase

import (
	"context"
	"time"

	"booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/bookings/core/ports"
)

type EnsureCityLocationsUseCase struct {
	repo ports.CityLocationPort
	now  func() time.Time
}

func NewEnsureCityLocationsUseCase(repo ports.CityLocationPort) *EnsureCityLocationsUseCase {
	return &EnsureCityLocationsUseCase{repo: repo, now: time.Now}
}

// Execute seeds the default reference cities when no location exists yet and reports
// how many were inserted.
func (uc *EnsureCityLocationsUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.repo.CountCityLocations(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	defaults := domain.DefaultCityLocations(uc.now().UTC())
	if err := uc.repo.InsertCityLocations(ctx, defaults); err != nil {
		return 0, err
	}

	return len(defaults), nil
}
