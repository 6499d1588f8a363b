package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisClient dùng chung Redis với asynq; API chỉ cần ping cho /health
type RedisClient struct {
	Client *redis.Client
	addr   string
}

func NewRedisClient(host, password string, db int) *RedisClient {
	return &RedisClient{
		addr: host,
		Client: redis.NewClient(&redis.Options{
			Addr:         host,
			Password:     password,
			DB:           db,
			PoolSize:     5,
			MinIdleConns: 1,
			MaxRetries:   2,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		}),
	}
}

// Addr trả về địa chỉ đã cấu hình
func (r *RedisClient) Addr() string {
	return r.addr
}

func (r *RedisClient) Connect(ctx context.Context) error {
	log.Info().Str("addr", r.addr).Msg("[REDIS] Connecting to Redis")

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Msg("[REDIS] Connected successfully")
	return nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
