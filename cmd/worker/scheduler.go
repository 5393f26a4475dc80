package main

import (
	"log"

	"github.com/agustxnpm/foodflow-sub003/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler for the worker binary.
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}

	go func() {
		log.Println("scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("scheduler shutting down...")
	s.Scheduler.Shutdown()
}
