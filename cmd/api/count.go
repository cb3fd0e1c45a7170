package main

import (
	"encoding/json"
	"fmt"

	"booking-analytics-service/internal/analytics/adapters/dto"
	analyticsUsecase "booking-analytics-service/internal/analytics/core/usecase"

	"github.com/spf13/cobra"
)

func countCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "count <city> <createdDate YYYY-MM-DD> <appointmentDate DD/MM/YYYY>",
		Short:   "Count bookings for a city created on a day for one appointment date",
		Example: `  booking-analytics count Toronto 2025-05-01 10/05/2025`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			defer func() { _ = be.Close(ctx) }()

			engine := analyticsUsecase.NewEngine(be.reader, logger)
			n, err := engine.CountForAppointment(ctx, args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("count: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.AppointmentCountResponse{
				City:            args[0],
				CreatedDate:     args[1],
				AppointmentDate: args[2],
				Count:           n,
			})
		},
	}
}
