package queue

import (
	"context"
	"fmt"
	"time"

	"country-currency-api/internal/config"
	"country-currency-api/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Client wrap asynq.Client để enqueue refresh từ ngoài worker (CLI)
type Client struct {
	client *asynq.Client
}

func NewClient(redis config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(redis))}
}

// EnqueueRefresh đẩy một task refresh vào queue refresh.
// Unique 1 phút để tránh hai refresh chồng nhau do bấm liên tục.
func (c *Client) EnqueueRefresh(ctx context.Context, trigger string) (string, error) {
	task, err := NewRefreshTask(trigger)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueRefresh),
		asynq.MaxRetry(0),
		asynq.Timeout(2*time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue refresh: %w", err)
	}

	log.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("trigger", trigger).
		Msg("Refresh task enqueued")

	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
