package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"country-currency-api/internal/infrastructure/queue"
	"country-currency-api/internal/shared"
	"country-currency-api/pkg/container"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates and configures the Asynq server
func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		queue.RedisOpt(c.Config.Redis),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueRefresh: 10,
				shared.QueueDefault: 5,
			},
			// Refresh ghi toàn bộ bảng; chạy tuần tự là đủ
			Concurrency: 1,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task_type", task.Type()).Msg("[Asynq] ❌ Task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] Failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for the in-flight refresh (asynq ShutdownTimeout) then stops
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] ✓ Gracefully stopped")
}
