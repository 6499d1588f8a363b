package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"country-currency-api/internal/config"
	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/infrastructure/queue"
	"country-currency-api/pkg/container"
)

var (
	// Refresh flags
	enqueue bool
)

// refreshCmd chạy refresh ngay hoặc đẩy task cho worker
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh countries from the upstream APIs",
	Long: `Fetch the country directory and exchange rates, recompute estimated GDP,
upsert every country and regenerate the summary image.

Examples:
  countryctl refresh             # Run in-process and print counts
  countryctl refresh --enqueue   # Hand the refresh to the worker via Redis`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if enqueue {
			return runEnqueueRefresh(cmd)
		}
		return runRefresh(cmd)
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&enqueue, "enqueue", false, "Enqueue a refresh task instead of running it")
}

func runRefresh(cmd *cobra.Command) error {
	c, err := container.NewContainer()
	if err != nil {
		return err
	}
	defer c.Cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := c.RefreshService.Refresh(ctx)
	if err != nil {
		return err
	}

	resp := model.NewRefreshResponse(result)
	text := fmt.Sprintf("✓ Refreshed %d countries (%d created, %d updated) at %s",
		resp.TotalCountries, resp.Created, resp.Updated, resp.LastRefreshedAt.Format(time.RFC3339))
	return printResult(cmd, resp, text)
}

func runEnqueueRefresh(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := queue.NewClient(cfg.Redis)
	defer client.Close()

	taskID, err := client.EnqueueRefresh(cmd.Context(), "cli")
	if err != nil {
		return err
	}

	return printResult(cmd, map[string]string{"task_id": taskID}, "✓ Refresh enqueued: "+taskID)
}
