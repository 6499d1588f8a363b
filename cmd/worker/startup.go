// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"country-currency-api/internal/infrastructure/metrics"
	"country-currency-api/pkg/container"
)

const healthAddr = ":9999"

// startServices performs health checks and logs startup information
func startServices(c *container.Container) error {
	log.Info().Msg("============================================")
	log.Info().Msg("🚀 Country Refresh Worker Starting...")
	log.Info().Msg("============================================")

	if err := checkAll(c); err != nil {
		return err
	}

	go startHealthCheckServer()

	return nil
}

// checkAll runs all health checks
func checkAll(c *container.Container) error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis Connection", c.Redis.HealthCheck},
	}
	if c.DB != nil {
		checks = append(checks, struct {
			name string
			fn   func(ctx context.Context) error
		}{"PostgreSQL Connection", c.DB.HealthCheck})
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()

		if err != nil {
			log.Error().Err(err).Msgf("❌ %s", check.name)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Msgf("✓ %s: OK", check.name)
	}

	return nil
}

// startHealthCheckServer exposes /health, /ready and /metrics for the worker
func startHealthCheckServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.HandleFunc("/ready", readyCheckHandler)
	mux.Handle("/metrics", metrics.Handler())

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(healthAddr, mux); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"UP","service":"country-refresh-worker"}`))
}

// readyCheckHandler handles /ready endpoint (Kubernetes readiness probe)
func readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"READY"}`))
}
