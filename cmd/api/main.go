package main

import (
	"fmt"
	"os"

	"booking-analytics-service/internal/config"
	"booking-analytics-service/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Booking Analytics API
// @version 1.0
// @description Aggregated visa-appointment booking views and a live push channel.
// @BasePath /
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:          "booking-analytics",
		Short:        "Booking analytics API and live dashboard feed",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(
		serveCmd(&g),
		seedCmd(&g),
		healthcheckCmd(&g),
		countCmd(&g),
	)
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, push channel and change dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *g)
		},
	}
}

// setup loads configuration and builds the logger shared by every subcommand.
func setup(g globalFlags) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
