package lifecycle_repo

import (
	"context"
	"testing"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	employee_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/employee-repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adapter is one persistence backend under test.
type adapter struct {
	repo      LifecycleRepoContract
	employees employee_repo.EmployeeRepoContract
	txManager tx.TxManager
}

var baseTime = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func (a adapter) seedEmployee(t *testing.T, role entity.EmployeeRole) string {
	t.Helper()
	id := uuid.NewString()
	appErr := a.employees.InsertEmployee(context.Background(), &entity.SubjectRecord{
		ID:             id,
		EmployeeNumber: "E-" + id[:8],
		FirstName:      "Test",
		LastName:       "Person",
		Email:          id[:8] + "@example.com",
		Role:           role,
		CreatedAt:      baseTime,
	})
	require.Nil(t, appErr)
	return id
}

func (a adapter) createCase(t *testing.T, subjectID string, kind entity.CaseKind, labels ...string) (*entity.CaseEntity, []entity.TaskEntity) {
	t.Helper()
	ctx := context.Background()

	c := &entity.CaseEntity{
		ID:        uuid.NewString(),
		Kind:      kind,
		SubjectID: subjectID,
		StartDate: baseTime,
		Status:    entity.CasePending,
		Version:   1,
		CreatedBy: subjectID,
		CreatedAt: baseTime,
	}
	tasks := make([]entity.TaskEntity, 0, len(labels))
	for i, label := range labels {
		tasks = append(tasks, entity.TaskEntity{
			ID:        uuid.NewString(),
			CaseID:    c.ID,
			Label:     label,
			Status:    entity.TaskPending,
			Position:  i,
			CreatedAt: baseTime,
		})
	}

	txx, appErr := a.txManager.Begin(ctx)
	require.Nil(t, appErr)
	require.Nil(t, a.repo.InsertCase(ctx, txx, c))
	require.Nil(t, a.repo.InsertTasks(ctx, txx, tasks))
	require.Nil(t, txx.Commit(ctx))

	return c, tasks
}

func runRepoSuite(t *testing.T, a adapter) {
	ctx := context.Background()

	t.Run("insert and load with ordered tasks", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		c, _ := a.createCase(t, subject, entity.CaseOnboarding, "HR documents", "IT setup", "Buddy")

		got, appErr := a.repo.GetCaseByID(ctx, nil, c.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.CaseOnboarding, got.Kind)
		assert.Equal(t, entity.CasePending, got.Status)
		assert.Equal(t, int64(1), got.Version)
		assert.True(t, got.StartDate.Equal(baseTime))

		tasks, appErr := a.repo.ListTasksByCase(ctx, nil, c.ID)
		require.Nil(t, appErr)
		require.Len(t, tasks, 3)
		assert.Equal(t, "HR documents", tasks[0].Label)
		assert.Equal(t, "Buddy", tasks[2].Label)
		for _, task := range tasks {
			assert.Equal(t, entity.TaskPending, task.Status)
			assert.Nil(t, task.CompletedAt)
		}
	})

	t.Run("unknown case is not found", func(t *testing.T) {
		_, appErr := a.repo.GetCaseByID(ctx, nil, uuid.NewString())
		require.NotNil(t, appErr)
		assert.Equal(t, app_errors.ErrNotFound, appErr.Type)
		assert.Equal(t, "case_not_found", appErr.MessageKey)
	})

	t.Run("rollback discards case and tasks", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		id := uuid.NewString()

		txx, appErr := a.txManager.Begin(ctx)
		require.Nil(t, appErr)
		require.Nil(t, a.repo.InsertCase(ctx, txx, &entity.CaseEntity{
			ID: id, Kind: entity.CaseOffboarding, SubjectID: subject, StartDate: baseTime,
			Status: entity.CasePending, Version: 1, CreatedBy: subject, CreatedAt: baseTime,
		}))
		require.Nil(t, a.repo.InsertTasks(ctx, txx, []entity.TaskEntity{{
			ID: uuid.NewString(), CaseID: id, Label: "Revoke access", Status: entity.TaskPending, CreatedAt: baseTime,
		}}))
		require.Nil(t, txx.Rollback(ctx))

		_, appErr = a.repo.GetCaseByID(ctx, nil, id)
		require.NotNil(t, appErr)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("update bumps version", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		c, _ := a.createCase(t, subject, entity.CaseOnboarding)

		txx, appErr := a.txManager.Begin(ctx)
		require.Nil(t, appErr)
		locked, appErr := a.repo.GetCaseForUpdate(ctx, txx, c.ID)
		require.Nil(t, appErr)

		locked.Status = entity.CaseInProgress
		locked.Notes = ptr("first week")
		locked.UpdatedAt = ptr(baseTime.Add(time.Hour))
		version, appErr := a.repo.UpdateCase(ctx, txx, locked)
		require.Nil(t, appErr)
		assert.Equal(t, int64(2), version)

		version, appErr = a.repo.TouchCase(ctx, txx, c.ID, baseTime.Add(2*time.Hour))
		require.Nil(t, appErr)
		assert.Equal(t, int64(3), version)
		require.Nil(t, txx.Commit(ctx))

		got, appErr := a.repo.GetCaseByID(ctx, nil, c.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.CaseInProgress, got.Status)
		assert.Equal(t, "first week", *got.Notes)
		assert.Equal(t, int64(3), got.Version)
	})

	t.Run("row lock needs a transaction", func(t *testing.T) {
		_, appErr := a.repo.GetCaseForUpdate(ctx, nil, uuid.NewString())
		require.NotNil(t, appErr)
		assert.Equal(t, app_errors.ErrInternal, appErr.Type)
	})

	t.Run("task update and partial delete", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		c, tasks := a.createCase(t, subject, entity.CaseOffboarding, "Collect laptop", "Exit interview", "Final pay")

		done := tasks[0]
		done.Status = entity.TaskCompleted
		done.CompletedAt = ptr(baseTime.Add(24 * time.Hour))
		done.UpdatedAt = done.CompletedAt
		require.Nil(t, a.repo.UpdateTask(ctx, nil, &done))

		got, appErr := a.repo.GetTaskByID(ctx, nil, done.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.TaskCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, got.CompletedAt.Equal(*done.CompletedAt))

		n, appErr := a.repo.DeleteTasks(ctx, nil, c.ID, []string{tasks[1].ID, tasks[2].ID})
		require.Nil(t, appErr)
		assert.Equal(t, int64(2), n)

		left, appErr := a.repo.ListTasksByCase(ctx, nil, c.ID)
		require.Nil(t, appErr)
		require.Len(t, left, 1)
		assert.Equal(t, done.ID, left[0].ID)
	})

	t.Run("completed_at requires completed status", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		_, tasks := a.createCase(t, subject, entity.CaseOnboarding, "Sign contract")

		bad := tasks[0]
		bad.CompletedAt = ptr(baseTime)
		appErr := a.repo.UpdateTask(ctx, nil, &bad)
		require.NotNil(t, appErr)
		assert.Equal(t, app_errors.ErrValidation, appErr.Type)
	})

	t.Run("delete case cascades to tasks", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		c, tasks := a.createCase(t, subject, entity.CaseOnboarding, "A", "B")

		require.Nil(t, a.repo.DeleteCase(ctx, nil, c.ID))

		for _, task := range tasks {
			_, appErr := a.repo.GetTaskByID(ctx, nil, task.ID)
			require.NotNil(t, appErr)
			assert.Equal(t, "task_not_found", appErr.MessageKey)
		}

		appErr := a.repo.DeleteCase(ctx, nil, c.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, app_errors.ErrNotFound, appErr.Type)
	})

	t.Run("open case detection and listing", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)

		open, appErr := a.repo.HasOpenCase(ctx, nil, subject, entity.CaseOnboarding)
		require.Nil(t, appErr)
		assert.False(t, open)

		c, _ := a.createCase(t, subject, entity.CaseOnboarding)
		a.createCase(t, subject, entity.CaseOffboarding)

		open, appErr = a.repo.HasOpenCase(ctx, nil, subject, entity.CaseOnboarding)
		require.Nil(t, appErr)
		assert.True(t, open)

		c.Status = entity.CaseCancelled
		c.UpdatedAt = ptr(baseTime)
		_, appErr = a.repo.UpdateCase(ctx, nil, c)
		require.Nil(t, appErr)

		open, appErr = a.repo.HasOpenCase(ctx, nil, subject, entity.CaseOnboarding)
		require.Nil(t, appErr)
		assert.False(t, open)

		all, total, appErr := a.repo.ListCases(ctx, entity.CaseFilter{SubjectID: &subject, Page: 1, Limit: 10})
		require.Nil(t, appErr)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)

		kind := entity.CaseOffboarding
		filtered, total, appErr := a.repo.ListCases(ctx, entity.CaseFilter{SubjectID: &subject, Kind: &kind, Page: 1, Limit: 10})
		require.Nil(t, appErr)
		assert.Equal(t, int64(1), total)
		require.Len(t, filtered, 1)
		assert.Equal(t, entity.CaseOffboarding, filtered[0].Kind)

		paged, total, appErr := a.repo.ListCases(ctx, entity.CaseFilter{SubjectID: &subject, Page: 2, Limit: 1})
		require.Nil(t, appErr)
		assert.Equal(t, int64(2), total)
		assert.Len(t, paged, 1)
	})

	t.Run("subject lock needs a transaction", func(t *testing.T) {
		appErr := a.repo.LockSubject(ctx, nil, uuid.NewString(), entity.CaseOnboarding)
		require.NotNil(t, appErr)

		txx, appErr := a.txManager.Begin(ctx)
		require.Nil(t, appErr)
		defer txx.Rollback(ctx)
		assert.Nil(t, a.repo.LockSubject(ctx, txx, uuid.NewString(), entity.CaseOnboarding))
	})

	t.Run("overdue tasks and reminder stamp", func(t *testing.T) {
		subject := a.seedEmployee(t, entity.RoleEmployee)
		assignee := a.seedEmployee(t, entity.RoleManager)
		_, tasks := a.createCase(t, subject, entity.CaseOnboarding, "Overdue", "Later", "Unassigned")

		overdue := tasks[0]
		overdue.AssigneeID = &assignee
		overdue.DueDate = ptr(baseTime.Add(-48 * time.Hour))
		require.Nil(t, a.repo.UpdateTask(ctx, nil, &overdue))

		later := tasks[1]
		later.AssigneeID = &assignee
		later.DueDate = ptr(baseTime.Add(48 * time.Hour))
		require.Nil(t, a.repo.UpdateTask(ctx, nil, &later))

		unassigned := tasks[2]
		unassigned.DueDate = ptr(baseTime.Add(-48 * time.Hour))
		require.Nil(t, a.repo.UpdateTask(ctx, nil, &unassigned))

		found, appErr := a.repo.ListOverdueTasks(ctx, baseTime, baseTime.Add(-24*time.Hour), 100)
		require.Nil(t, appErr)

		var mine []entity.OverdueTask
		for _, o := range found {
			if o.AssigneeID == assignee {
				mine = append(mine, o)
			}
		}
		require.Len(t, mine, 1)
		assert.Equal(t, overdue.ID, mine[0].TaskID)
		assert.Equal(t, "Test Person", mine[0].AssigneeName)
		assert.Equal(t, subject, mine[0].SubjectID)

		require.Nil(t, a.repo.MarkTasksReminded(ctx, []string{overdue.ID}, baseTime))

		found, appErr = a.repo.ListOverdueTasks(ctx, baseTime, baseTime.Add(-24*time.Hour), 100)
		require.Nil(t, appErr)
		for _, o := range found {
			assert.NotEqual(t, overdue.ID, o.TaskID)
		}
	})
}
