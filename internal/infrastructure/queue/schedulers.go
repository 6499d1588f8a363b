package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"country-currency-api/internal/config"
	"country-currency-api/internal/shared"
	"country-currency-api/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis config.RedisConfig, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		RedisOpt(redis),
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RedisOpt chuyển RedisConfig sang option của asynq
func RedisOpt(redis config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     redis.Host,
		Password: redis.Password,
		DB:       redis.DB,
	}
}

// NewRefreshTask build task refresh với trigger tương ứng
func NewRefreshTask(trigger string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.RefreshCountriesPayload{Trigger: trigger})
	if err != nil {
		return nil, fmt.Errorf("marshal refresh payload: %w", err)
	}
	return asynq.NewTask(shared.TypeRefreshCountries, payload), nil
}

// RegisterRefreshJob đăng ký refresh định kỳ theo REFRESH_CRON (mặc định mỗi 6 giờ)
func (s *Scheduler) RegisterRefreshJob() error {
	task, err := NewRefreshTask("scheduler")
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.RefreshCron,
		task,
		asynq.Queue(shared.QueueRefresh),
		asynq.MaxRetry(0), // refresh không retry, lần chạy kế tiếp sẽ thử lại
		asynq.Timeout(2*time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register RefreshCountries job", err)
		return err
	}

	logger.Info("✓ Registered RefreshCountries", map[string]interface{}{
		"cron": s.jobConfig.RefreshCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
