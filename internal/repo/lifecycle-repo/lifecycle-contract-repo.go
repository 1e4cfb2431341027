package lifecycle_repo

import (
	"context"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
)

// LifecycleRepoContract persists cases and their tasks. Every method taking a
// tx.Tx runs on the pool when t is nil.
type LifecycleRepoContract interface {
	InsertCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) *app_errors.AppError
	InsertTasks(ctx context.Context, t tx.Tx, tasks []entity.TaskEntity) *app_errors.AppError
	GetCaseByID(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError)
	GetCaseForUpdate(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError)
	ListTasksByCase(ctx context.Context, t tx.Tx, caseID string) ([]entity.TaskEntity, *app_errors.AppError)
	UpdateCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) (int64, *app_errors.AppError)
	TouchCase(ctx context.Context, t tx.Tx, caseID string, at time.Time) (int64, *app_errors.AppError)
	DeleteCase(ctx context.Context, t tx.Tx, caseID string) *app_errors.AppError
	GetTaskByID(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError)
	UpdateTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) *app_errors.AppError
	DeleteTasks(ctx context.Context, t tx.Tx, caseID string, taskIDs []string) (int64, *app_errors.AppError)
	HasOpenCase(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) (bool, *app_errors.AppError)
	LockSubject(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) *app_errors.AppError
	ListCases(ctx context.Context, filter entity.CaseFilter) ([]entity.CaseEntity, int64, *app_errors.AppError)
	ListOverdueTasks(ctx context.Context, now, remindedBefore time.Time, limit int) ([]entity.OverdueTask, *app_errors.AppError)
	MarkTasksReminded(ctx context.Context, taskIDs []string, at time.Time) *app_errors.AppError
}
