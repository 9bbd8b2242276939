package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"journal-backend/pkg/logger"
)

// Enqueuer is the narrow slice of asynq the services need. Fire-and-forget
// side effects go through here so the queue can retry them.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...Option) error
}

// Option mirrors the asynq task options the services actually use.
type Option struct {
	Queue    string
	MaxRetry int
	Timeout  time.Duration
	Delay    time.Duration
}

type asynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) Enqueuer {
	return &asynqEnqueuer{client: client}
}

func (e *asynqEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}

	var asynqOpts []asynq.Option
	for _, opt := range opts {
		if opt.Queue != "" {
			asynqOpts = append(asynqOpts, asynq.Queue(opt.Queue))
		}
		if opt.MaxRetry > 0 {
			asynqOpts = append(asynqOpts, asynq.MaxRetry(opt.MaxRetry))
		}
		if opt.Timeout > 0 {
			asynqOpts = append(asynqOpts, asynq.Timeout(opt.Timeout))
		}
		if opt.Delay > 0 {
			asynqOpts = append(asynqOpts, asynq.ProcessIn(opt.Delay))
		}
	}

	task := asynq.NewTask(taskType, data)
	info, err := e.client.EnqueueContext(ctx, task, asynqOpts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	logger.Debug("Enqueued task", map[string]interface{}{
		"type":  taskType,
		"id":    info.ID,
		"queue": info.Queue,
	})
	return nil
}
