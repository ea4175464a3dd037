package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"reviewhunter/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Enqueuer puts hunt tasks on the queue for the asynq server to pick up.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueHuntRun(ctx context.Context, huntID string) error {
	task, err := NewHuntRunTask(huntID)
	if err != nil {
		return fmt.Errorf("NewHuntRunTask: %w", err)
	}

	info, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Info("hunt task enqueued",
		"hunt-id", huntID,
		"task-id", info.ID,
		"queue", info.Queue,
	)

	return nil
}
