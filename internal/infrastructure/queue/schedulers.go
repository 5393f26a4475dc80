package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/agustxnpm/foodflow-sub003/internal/shared"
	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires every periodic job into the scheduler.
func (s *Scheduler) RegisterJobs() error {
	return s.registerExpirePromotionsJob()
}

// Expire promotions every 15 minutes. The engine never applies an expired
// promotion regardless; the sweep only keeps the candidate set lean, so a
// short interval is cheap and a missed run is harmless.
func (s *Scheduler) registerExpirePromotionsJob() error {
	payload, err := json.Marshal(shared.ExpirePromotionsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpirePromotions, payload)

	_, err = s.scheduler.Register(
		"*/15 * * * *",
		task,
		asynq.Queue(shared.QueuePromotion),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpirePromotions job", err)
		return err
	}

	logger.Info("registered ExpirePromotions: every 15 minutes", nil)
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
