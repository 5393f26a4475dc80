package main

import (
	"log"

	"github.com/agustxnpm/foodflow-sub003/internal/shared/utils"
)

// Config holds the worker's own configuration.
type Config struct {
	RedisAddr  string
	HealthPort string
}

func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:  utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		HealthPort: utils.GetEnvVariable("WORKER_HEALTH_PORT", "9999"),
	}

	log.Printf("worker config: redis=%s health_port=%s", cfg.RedisAddr, cfg.HealthPort)

	return cfg
}
