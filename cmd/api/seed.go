package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"booking-analytics-service/internal/bookings/core/domain"
	bookingsUsecase "booking-analytics-service/internal/bookings/core/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedVisaClasses = []string{"B1/B2", "F-1", "H-1B", "J-1", "L-1"}

func seedCmd(g *globalFlags) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed city locations and optionally generated bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 0 {
				return fmt.Errorf("--bookings must not be negative")
			}
			cfg, logger, err := setup(*g)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			be, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = be.Close(context.Background()) }()

			seeded, err := bookingsUsecase.NewEnsureCityLocationsUseCase(be.writer).Execute(ctx)
			if err != nil {
				return fmt.Errorf("seed city locations: %w", err)
			}
			logger.Info("city locations", zap.Int("inserted", seeded))

			if n == 0 {
				return nil
			}
			res, err := bookingsUsecase.NewRecordBookingUseCase(be.writer).BulkRecord(ctx, bookingsUsecase.BulkRecordInput{
				Bookings: generateBookings(n, time.Now().UTC(), rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))),
			})
			if err != nil {
				return fmt.Errorf("seed bookings: %w", err)
			}
			logger.Info("bookings", zap.Int("inserted", res.Created))
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "bookings", 0, "Number of generated bookings to insert")
	return cmd
}

// generateBookings spreads n bookings over the reference cities, created during the
// last 180 days with appointments up to 90 days after creation.
func generateBookings(n int, now time.Time, r *rand.Rand) []bookingsUsecase.RecordBookingInput {
	cities := domain.DefaultCityLocations(now)
	out := make([]bookingsUsecase.RecordBookingInput, 0, n)

	for i := 0; i < n; i++ {
		created := now.Add(-time.Duration(r.Int64N(int64(180 * 24 * time.Hour))))
		appt := created.AddDate(0, 0, 1+r.IntN(90))

		group := domain.GroupSizeSingle
		if r.IntN(3) == 0 {
			group = domain.GroupSizeGroup
		}

		date := appt.Format("02/01/2006")
		clock := fmt.Sprintf("%02d:%02d", 7+r.IntN(10), 15*r.IntN(4))
		out = append(out, bookingsUsecase.RecordBookingInput{
			Email:                     "seed+" + uuid.NewString() + "@example.com",
			AppointmentDate:           date,
			AppointmentTime:           clock,
			Location:                  cities[r.IntN(len(cities))].City,
			GroupSize:                 group,
			VisaClass:                 seedVisaClasses[r.IntN(len(seedVisaClasses))],
			OriginalAppointmentString: date + " " + clock,
			CreatedAt:                 domain.FormatTimestamp(created),
		})
	}
	return out
}
