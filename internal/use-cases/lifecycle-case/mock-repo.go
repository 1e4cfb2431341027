package lifecycle_case

import (
	"context"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	lifecycle_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/lifecycle-repo"
	"github.com/stretchr/testify/mock"
)

var _ lifecycle_repo.LifecycleRepoContract = (*MockLifecycleRepo)(nil)

type MockLifecycleRepo struct {
	mock.Mock
}

// Mocking repository that being used in method
func (m *MockLifecycleRepo) InsertCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) *app_errors.AppError {
	args := m.Called(ctx, t, c)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) InsertTasks(ctx context.Context, t tx.Tx, tasks []entity.TaskEntity) *app_errors.AppError {
	args := m.Called(ctx, t, tasks)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) GetCaseByID(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, caseID)
	return args.Get(0).(*entity.CaseEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) GetCaseForUpdate(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, caseID)
	return args.Get(0).(*entity.CaseEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) ListTasksByCase(ctx context.Context, t tx.Tx, caseID string) ([]entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, caseID)
	return args.Get(0).([]entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) UpdateCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) (int64, *app_errors.AppError) {
	args := m.Called(ctx, t, c)
	return args.Get(0).(int64), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) TouchCase(ctx context.Context, t tx.Tx, caseID string, at time.Time) (int64, *app_errors.AppError) {
	args := m.Called(ctx, t, caseID, at)
	return args.Get(0).(int64), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) DeleteCase(ctx context.Context, t tx.Tx, caseID string) *app_errors.AppError {
	args := m.Called(ctx, t, caseID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) GetTaskByID(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) UpdateTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	args := m.Called(ctx, t, task)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) DeleteTasks(ctx context.Context, t tx.Tx, caseID string, taskIDs []string) (int64, *app_errors.AppError) {
	args := m.Called(ctx, t, caseID, taskIDs)
	return args.Get(0).(int64), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) HasOpenCase(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) (bool, *app_errors.AppError) {
	args := m.Called(ctx, t, subjectID, kind)
	return args.Bool(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) LockSubject(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) *app_errors.AppError {
	args := m.Called(ctx, t, subjectID, kind)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) ListCases(ctx context.Context, filter entity.CaseFilter) ([]entity.CaseEntity, int64, *app_errors.AppError) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.CaseEntity), args.Get(1).(int64), args.Get(2).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) ListOverdueTasks(ctx context.Context, now, remindedBefore time.Time, limit int) ([]entity.OverdueTask, *app_errors.AppError) {
	args := m.Called(ctx, now, remindedBefore, limit)
	return args.Get(0).([]entity.OverdueTask), args.Get(1).(*app_errors.AppError)
}

func (m *MockLifecycleRepo) MarkTasksReminded(ctx context.Context, taskIDs []string, at time.Time) *app_errors.AppError {
	args := m.Called(ctx, taskIDs, at)
	return args.Get(0).(*app_errors.AppError)
}

type MockSubjectResolver struct {
	mock.Mock
}

func (m *MockSubjectResolver) FindSubjectByID(ctx context.Context, id string) (*entity.SubjectRecord, *app_errors.AppError) {
	args := m.Called(ctx, id)
	return args.Get(0).(*entity.SubjectRecord), args.Get(1).(*app_errors.AppError)
}
