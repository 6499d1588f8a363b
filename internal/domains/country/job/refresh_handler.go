package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"country-currency-api/internal/domains/country/service"
	"country-currency-api/internal/shared"
)

// RefreshHandler chạy refresh khi worker nhận task countries:refresh
type RefreshHandler struct {
	refreshService service.RefreshServiceInterface
}

func NewRefreshHandler(refreshService service.RefreshServiceInterface) *RefreshHandler {
	return &RefreshHandler{refreshService: refreshService}
}

func (h *RefreshHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RefreshCountriesPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Str("task_type", task.Type()).Msg("Invalid refresh payload")
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	log.Info().
		Str("trigger", payload.Trigger).
		Msg("Starting scheduled country refresh")

	start := time.Now()
	result, err := h.refreshService.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh countries: %w", err)
	}

	log.Info().
		Str("trigger", payload.Trigger).
		Int("refresh_total", result.Total).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Dur("duration", time.Since(start)).
		Msg("Scheduled country refresh completed")

	return nil
}
