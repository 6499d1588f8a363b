// cmd/worker/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"country-currency-api/pkg/container"
	"country-currency-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	// Initialize container
	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	// Initialize handlers
	handlers := initializeHandlers(c)

	// Setup Asynq server
	srv := setupAsynqServer(c, handlers)

	// Setup scheduler
	scheduler := setupScheduler(c)

	// Perform health checks and log startup
	if err := startServices(c); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	// Wait for shutdown signal
	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] ✓ Stopped")
}
