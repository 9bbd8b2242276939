package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"journal-backend/internal/shared"
	"journal-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress, Password: redisPassword, DB: redisDB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterPeriodicJobs() error {
	if err := s.registerReviewRemindersJob(); err != nil {
		return err
	}
	if err := s.registerExpireStaleCheckoutsJob(); err != nil {
		return err
	}
	if err := s.registerFlushViewCountsJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// JOB 1: Review Deadline Reminders (Daily at 7 AM)
// ================================================
// Morning send so reviewers see the reminder at the start of their day.
func (s *Scheduler) registerReviewRemindersJob() error {
	payload, err := json.Marshal(shared.ReviewReminderPayload{Limit: 200})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSendReviewReminders, payload)

	_, err = s.scheduler.Register(
		"0 7 * * *",
		task,
		asynq.Queue(shared.QueueEmails),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReviewReminders job", err)
		return err
	}

	logger.Info("✓ Registered ReviewReminders: daily at 7 AM", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Expire Stale Checkouts (Daily at 2 AM)
// ================================================
// Stripe checkout sessions expire after 24 hours; this sweep marks the
// matching payment rows so editors see an accurate payment column.
func (s *Scheduler) registerExpireStaleCheckoutsJob() error {
	payload, err := json.Marshal(shared.ExpireStaleCheckoutsPayload{OlderThanHours: 24})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireStaleCheckouts, payload)

	_, err = s.scheduler.Register(
		"0 2 * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireStaleCheckouts job", err)
		return err
	}

	logger.Info("✓ Registered ExpireStaleCheckouts: daily at 2 AM", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 3: Flush Article View Counts (Every 10 minutes)
// ================================================
// View counters accumulate in Redis and land in PostgreSQL in batches.
func (s *Scheduler) registerFlushViewCountsJob() error {
	payload, err := json.Marshal(shared.FlushViewCountsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeFlushArticleViewCounts, payload)

	_, err = s.scheduler.Register(
		"*/10 * * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register FlushViewCounts job", err)
		return err
	}

	logger.Info("✓ Registered FlushViewCounts: every 10 minutes", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
