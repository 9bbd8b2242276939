package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"journal-backend/internal/shared"
	"journal-backend/pkg/container"
)

// asynqServer wraps asynq.Server for graceful shutdown
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the Asynq server and registers every job
// handler from the container.
func setupAsynqServer(c *container.Container) *asynqServer {
	mux := asynq.NewServeMux()

	// Email tasks
	mux.HandleFunc(shared.TypeSendPublicationNotice, c.PublicationNoticeJob.ProcessTask)
	mux.HandleFunc(shared.TypeSendReviewReminders, c.ReminderJob.ProcessTask)

	// Document tasks
	mux.HandleFunc(shared.TypeGenerateReviewCopy, c.ReviewCopyJob.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypeExpireStaleCheckouts, c.ExpireCheckoutsJob.ProcessTask)
	mux.HandleFunc(shared.TypeFlushArticleViewCounts, c.ViewCountFlushJob.ProcessTask)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueEmails:      6,
				shared.QueueDocuments:   3,
				shared.QueueMaintenance: 1,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] ❌ Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown gracefully shuts down the server with timeout
func (s *asynqServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("[Worker] Shutting down (waiting max 30s)...")
	s.Server.Shutdown()

	<-ctx.Done()
	if ctx.Err() == context.DeadlineExceeded {
		log.Println("[Worker] ⚠️ Shutdown timeout exceeded")
	} else {
		log.Println("[Worker] ✓ Gracefully stopped")
	}
}
