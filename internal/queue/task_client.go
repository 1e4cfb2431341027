package queue

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	worker_task "github.com/emamhosenCSE/aeos365-hrm/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TaskQueueClient ist die Producer-Seite der Notification- und Audit-Senken.
type TaskQueueClient interface {
	EnqueueLifecycleNotification(ctx context.Context, payload *worker_task.LifecycleNotificationPayload) error
	EnqueueAuditEntry(ctx context.Context, entry *entity.AuditEntry) error
}

var _ TaskQueueClient = (*TaskQueue)(nil)

type TaskQueue struct {
	client *asynq.Client
}

func NewTaskQueue(redis *redis.Client) *TaskQueue {
	return &TaskQueue{
		client: asynq.NewClientFromRedisClient(redis),
	}
}

func (q *TaskQueue) EnqueueLifecycleNotification(ctx context.Context, payload *worker_task.LifecycleNotificationPayload) error {
	log.Debug().Str("event", string(payload.Event)).Str("case_id", payload.CaseID).Msg("Preparing enqueueing payload.")
	p, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(worker_task.TaskLifecycleNotification, p,
		asynq.Queue(worker_task.QueueNotify),
		asynq.MaxRetry(3),
		asynq.TaskID(payload.EventID),
	)

	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

func (q *TaskQueue) EnqueueAuditEntry(ctx context.Context, entry *entity.AuditEntry) error {
	p, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	task := asynq.NewTask(worker_task.TaskLifecycleAudit, p,
		asynq.Queue(worker_task.QueueAudit),
		asynq.MaxRetry(10),
		asynq.TaskID(entry.ID),
	)

	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

func (q *TaskQueue) Close() error {
	return q.client.Close()
}
