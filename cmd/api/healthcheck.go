package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"booking-analytics-service/internal/storage/mongodb"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type storeInspector interface {
	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
	CountDocuments(ctx context.Context, collection string) (int64, error)
}

func healthcheckCmd(g *globalFlags) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check store connectivity and required collections, optionally probe a running API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*g)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			var failed bool

			be, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = be.Close(context.Background()) }()

			if be.client != nil {
				if err := inspectStore(ctx, be.client, out); err != nil {
					fmt.Fprintf(out, "store: FAIL %v\n", err)
					failed = true
				}
			} else {
				fmt.Fprintln(out, "store: memory driver, nothing to inspect")
			}

			if url != "" {
				client := resty.New().
					SetRetryCount(3).
					SetRetryWaitTime(2 * time.Second).
					SetTimeout(5 * time.Second)
				if err := probeAPI(ctx, client, url, out); err != nil {
					fmt.Fprintf(out, "api: FAIL %v\n", err)
					failed = true
				}
			}

			if failed {
				return errors.New("health check failed")
			}
			fmt.Fprintln(out, "health check passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Base URL of a running API to probe, e.g. http://localhost:3001")
	return cmd
}

// inspectStore pings the store, verifies the required collections and prints their sizes.
func inspectStore(ctx context.Context, s storeInspector, out io.Writer) error {
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	fmt.Fprintln(out, "store: ping ok")

	names, err := s.CollectionNames(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	var missing []string
	for _, want := range mongodb.RequiredCollections {
		if !slices.Contains(names, want) {
			missing = append(missing, want)
			continue
		}
		n, err := s.CountDocuments(ctx, want)
		if err != nil {
			return fmt.Errorf("count %s: %w", want, err)
		}
		fmt.Fprintf(out, "store: %s has %d documents\n", want, n)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing collections: %s", strings.Join(missing, ", "))
	}
	return nil
}

type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func probeAPI(ctx context.Context, client *resty.Client, baseURL string, out io.Writer) error {
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&healthBody{}).
		Get(strings.TrimRight(baseURL, "/") + "/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("bad status: %d", resp.StatusCode())
	}

	body, ok := resp.Result().(*healthBody)
	if !ok || body.Status != "OK" {
		return fmt.Errorf("unexpected body: %s", resp.String())
	}
	fmt.Fprintf(out, "api: ok at %s\n", body.Timestamp)
	return nil
}
