package lifecycle_case

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/dtos"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
)

type LifecycleServiceContract interface {
	// Cases
	StartCase(ctx context.Context, actorID string, req *lifecycle_dto.StartCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	InitializeWithDefaults(ctx context.Context, actorID string, req *lifecycle_dto.StartCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	BulkInitialize(ctx context.Context, actorID string, req *lifecycle_dto.BulkStartCaseRequest) (*lifecycle_dto.BulkStartCaseResponse, *app_errors.AppError)
	UpdateCase(ctx context.Context, actorID, caseID string, req *lifecycle_dto.UpdateCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	ReconcileTasks(ctx context.Context, actorID, caseID string, req *lifecycle_dto.ReconcileTasksRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	CompleteCase(ctx context.Context, actorID, caseID string, req *lifecycle_dto.CompleteCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	CancelCase(ctx context.Context, actorID, caseID string) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	DeleteCase(ctx context.Context, actorID, caseID string) *app_errors.AppError
	GetCase(ctx context.Context, actorID, caseID string) (*lifecycle_dto.CaseResponse, *app_errors.AppError)
	ListCases(ctx context.Context, actorID string, filter lifecycle_dto.CaseListFilter) ([]lifecycle_dto.CaseListItem, *dtos.PaginationMeta, *app_errors.AppError)
	CaseHistory(ctx context.Context, actorID, caseID string, limit int) ([]lifecycle_dto.AuditEntryResponse, *app_errors.AppError)

	// Tasks
	CreateTask(ctx context.Context, actorID, caseID string, req *lifecycle_dto.CreateTaskRequest) (*lifecycle_dto.TaskResponse, *app_errors.AppError)
	UpdateTaskFields(ctx context.Context, actorID, taskID string, patch *lifecycle_dto.TaskPatch) (*lifecycle_dto.TaskResponse, *app_errors.AppError)
	MarkTaskComplete(ctx context.Context, actorID, taskID string, req *lifecycle_dto.CompleteTaskRequest) (*lifecycle_dto.TaskResponse, *app_errors.AppError)
	DeleteTask(ctx context.Context, actorID, taskID string) *app_errors.AppError
	GetTask(ctx context.Context, actorID, taskID string) (*lifecycle_dto.TaskResponse, *app_errors.AppError)
}

// SubjectResolver löst die Person auf, um die es in einem Case geht.
type SubjectResolver interface {
	FindSubjectByID(ctx context.Context, id string) (*entity.SubjectRecord, *app_errors.AppError)
}
