package use_cases

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	"github.com/emamhosenCSE/aeos365-hrm/internal/queue"
	worker_task "github.com/emamhosenCSE/aeos365-hrm/internal/worker/tasks"
	"github.com/stretchr/testify/mock"
)

var _ queue.TaskQueueClient = (*MockTaskQueue)(nil)

// Mock TaskQueue for testing
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) EnqueueLifecycleNotification(ctx context.Context, payload *worker_task.LifecycleNotificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockTaskQueue) EnqueueAuditEntry(ctx context.Context, entry *entity.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Events liefert die eingestellten Ereignisse in Reihenfolge.
func (m *MockTaskQueue) Events() []entity.LifecycleEvent {
	var out []entity.LifecycleEvent
	for _, call := range m.Calls {
		if call.Method != "EnqueueLifecycleNotification" {
			continue
		}
		out = append(out, call.Arguments.Get(1).(*worker_task.LifecycleNotificationPayload).Event)
	}
	return out
}

// AuditEntries liefert die eingestellten Audit-Einträge in Reihenfolge.
func (m *MockTaskQueue) AuditEntries() []*entity.AuditEntry {
	var out []*entity.AuditEntry
	for _, call := range m.Calls {
		if call.Method != "EnqueueAuditEntry" {
			continue
		}
		out = append(out, call.Arguments.Get(1).(*entity.AuditEntry))
	}
	return out
}
