package worker_task

import (
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
)

const TaskLifecycleNotification = "notify:lifecycle_event"

const TaskLifecycleAudit = "audit:lifecycle_entry"

const TaskOverdueLifecycleTasks = "low:overdue_lifecycle_tasks"

const (
	QueueNotify = "notify"
	QueueAudit  = "audit"
	QueueLow    = "low"
)

// LifecycleNotificationPayload ist das Ereignis, das der Notification-Worker verteilt.
type LifecycleNotificationPayload struct {
	EventID    string                `json:"event_id"`
	Event      entity.LifecycleEvent `json:"event"`
	CaseID     string                `json:"case_id"`
	Kind       entity.CaseKind       `json:"kind"`
	SubjectID  string                `json:"subject_id"`
	ActorID    string                `json:"actor_id"`
	TaskID     *string               `json:"task_id,omitempty"`
	TaskLabel  *string               `json:"task_label,omitempty"`
	OccurredAt time.Time             `json:"occurred_at"`
}
