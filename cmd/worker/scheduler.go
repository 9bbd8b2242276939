package main

import (
	"log"

	"journal-backend/internal/infrastructure/queue"
	"journal-backend/pkg/container"
)

// asynqScheduler wraps the periodic job scheduler
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler starts the cron-style scheduler that feeds the
// maintenance and reminder queues.
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	if err := scheduler.RegisterPeriodicJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register periodic jobs: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}
