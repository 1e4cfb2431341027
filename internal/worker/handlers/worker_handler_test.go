package worker_handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	"github.com/emamhosenCSE/aeos365-hrm/internal/mail"
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	worker_task "github.com/emamhosenCSE/aeos365-hrm/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	name    string
	err     error
	events  []*mail.LifecycleMessage
	overdue []string
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) NotifyLifecycleEvent(ctx context.Context, msg *mail.LifecycleMessage) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

func (f *fakeNotifier) NotifyOverdueTask(ctx context.Context, task *entity.OverdueTask) error {
	if f.err != nil {
		return f.err
	}
	f.overdue = append(f.overdue, task.TaskID)
	return nil
}

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	s := repo.NewSQLiteStore(conn)
	t.Cleanup(s.Close)
	return s
}

func seedEmployee(t *testing.T, s *repo.Store, first string) string {
	t.Helper()
	id := uuid.NewString()
	require.Nil(t, s.Employees.InsertEmployee(context.Background(), &entity.SubjectRecord{
		ID:             id,
		EmployeeNumber: "E-" + id[:8],
		FirstName:      first,
		LastName:       "Test",
		Email:          id[:8] + "@example.com",
		Role:           entity.RoleEmployee,
		CreatedAt:      now,
	}))
	return id
}

func seedCase(t *testing.T, s *repo.Store, subjectID string, tasks ...entity.TaskEntity) *entity.CaseEntity {
	t.Helper()
	ctx := context.Background()
	c := &entity.CaseEntity{
		ID:        uuid.NewString(),
		Kind:      entity.CaseOnboarding,
		SubjectID: subjectID,
		StartDate: now.AddDate(0, 0, -10),
		Status:    entity.CasePending,
		Version:   1,
		CreatedBy: subjectID,
		CreatedAt: now.AddDate(0, 0, -10),
	}
	require.Nil(t, s.Lifecycle.InsertCase(ctx, nil, c))
	for i := range tasks {
		tasks[i].CaseID = c.ID
		tasks[i].Position = i
		tasks[i].CreatedAt = c.CreatedAt
		if tasks[i].Status == "" {
			tasks[i].Status = entity.TaskPending
		}
	}
	require.Nil(t, s.Lifecycle.InsertTasks(ctx, nil, tasks))
	return c
}

func notificationTask(t *testing.T, p *worker_task.LifecycleNotificationPayload) *asynq.Task {
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(worker_task.TaskLifecycleNotification, b)
}

func TestLifecycleNotification(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	subjectID := seedEmployee(t, s, "Grace")
	c := seedCase(t, s, subjectID)

	payload := &worker_task.LifecycleNotificationPayload{
		EventID:    uuid.NewString(),
		Event:      entity.EventCreated,
		CaseID:     c.ID,
		Kind:       c.Kind,
		SubjectID:  subjectID,
		OccurredAt: now,
	}

	t.Run("delivered to every channel", func(t *testing.T) {
		mailer := &fakeNotifier{name: "mailtrap"}
		tg := &fakeNotifier{name: "telegram"}
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit, mailer, tg)

		require.NoError(t, wh.LifecycleNotification()(ctx, notificationTask(t, payload)))
		require.Len(t, mailer.events, 1)
		require.Len(t, tg.events, 1)
		assert.Equal(t, "Grace Test", mailer.events[0].SubjectName)
		assert.Equal(t, c.ID, mailer.events[0].CaseID)
	})

	t.Run("one failing channel is tolerated", func(t *testing.T) {
		ok := &fakeNotifier{name: "telegram"}
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit, &fakeNotifier{name: "mailtrap", err: errors.New("down")}, ok)

		assert.NoError(t, wh.LifecycleNotification()(ctx, notificationTask(t, payload)))
		assert.Len(t, ok.events, 1)
	})

	t.Run("all channels failing is retried", func(t *testing.T) {
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit, &fakeNotifier{name: "mailtrap", err: errors.New("down")})
		assert.Error(t, wh.LifecycleNotification()(ctx, notificationTask(t, payload)))
	})

	t.Run("deleted case is dropped", func(t *testing.T) {
		n := &fakeNotifier{name: "mailtrap"}
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit, n)
		gone := *payload
		gone.CaseID = uuid.NewString()

		assert.NoError(t, wh.LifecycleNotification()(ctx, notificationTask(t, &gone)))
		assert.Empty(t, n.events)
	})

	t.Run("broken payload skips retry", func(t *testing.T) {
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit)
		err := wh.LifecycleNotification()(ctx, asynq.NewTask(worker_task.TaskLifecycleNotification, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestLifecycleAudit(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit)

	entry := entity.AuditEntry{
		ID:           uuid.NewString(),
		ActorID:      uuid.NewString(),
		Action:       "case:update",
		ResourceType: entity.ResourceCase,
		ResourceID:   uuid.NewString(),
		Changes: map[string]entity.FieldChange{
			"status": {Before: "Pending", After: "In_Progress"},
		},
		OccurredAt: now,
	}
	b, err := json.Marshal(entry)
	require.NoError(t, err)
	task := asynq.NewTask(worker_task.TaskLifecycleAudit, b)

	require.NoError(t, wh.LifecycleAudit()(ctx, task))
	// redelivery must not duplicate
	require.NoError(t, wh.LifecycleAudit()(ctx, task))

	entries, appErr := s.Audit.ListByResource(ctx, entry.ResourceID, 10)
	require.Nil(t, appErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "case:update", entries[0].Action)
	assert.Equal(t, "In_Progress", entries[0].Changes["status"].After)
}

func TestOverdueLifecycleTasks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	subjectID := seedEmployee(t, s, "Alan")
	assignee := seedEmployee(t, s, "Ada")

	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	overdue := entity.TaskEntity{ID: uuid.NewString(), Label: "IT equipment setup", DueDate: &past, AssigneeID: &assignee}
	notDue := entity.TaskEntity{ID: uuid.NewString(), Label: "Orientation session", DueDate: &future, AssigneeID: &assignee}
	seedCase(t, s, subjectID, overdue, notDue)

	t.Run("failed delivery is not stamped", func(t *testing.T) {
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit, &fakeNotifier{name: "mailtrap", err: errors.New("down")})
		wh.now = func() time.Time { return now }
		require.NoError(t, wh.OverdueLifecycleTasks()(ctx, asynq.NewTask(worker_task.TaskOverdueLifecycleTasks, nil)))

		pending, appErr := s.Lifecycle.ListOverdueTasks(ctx, now, now.Add(-overdueRemindWindow), 10)
		require.Nil(t, appErr)
		assert.Len(t, pending, 1)
	})

	t.Run("reminds once per window", func(t *testing.T) {
		n := &fakeNotifier{name: "mailtrap"}
		wh := NewWorkerHandler(s.Lifecycle, s.Employees, s.Audit, n)
		wh.now = func() time.Time { return now }

		require.NoError(t, wh.OverdueLifecycleTasks()(ctx, asynq.NewTask(worker_task.TaskOverdueLifecycleTasks, nil)))
		assert.Equal(t, []string{overdue.ID}, n.overdue)

		wh.now = func() time.Time { return now.Add(6 * time.Hour) }
		require.NoError(t, wh.OverdueLifecycleTasks()(ctx, asynq.NewTask(worker_task.TaskOverdueLifecycleTasks, nil)))
		assert.Len(t, n.overdue, 1)

		wh.now = func() time.Time { return now.Add(25 * time.Hour) }
		require.NoError(t, wh.OverdueLifecycleTasks()(ctx, asynq.NewTask(worker_task.TaskOverdueLifecycleTasks, nil)))
		assert.Len(t, n.overdue, 2)
	})
}
