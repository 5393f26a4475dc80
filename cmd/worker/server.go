package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
)

// asynqServer wraps asynq.Server with shutdown handling.
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Queues: map[string]int{
				"default": 10,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task failed: type=%s err=%v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown drains in-flight tasks before returning.
func (s *asynqServer) Shutdown() {
	log.Println("worker shutting down...")
	s.Server.Shutdown()
	log.Println("worker stopped processing")
}
