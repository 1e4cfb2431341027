package lifecycle_dto

import (
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/dtos"
)

type TaskTemplateRequest struct {
	Label       string     `json:"label" validate:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DueInDays   *int       `json:"due_in_days,omitempty" validate:"omitempty,min=-365,max=365"`
	AssigneeID  *string    `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}

// StartCaseRequest startet einen Case. Template nil bedeutet: konfigurierte
// Standardvorlage der Art verwenden; eine leere Liste legt keine Tasks an.
type StartCaseRequest struct {
	Kind                   string                 `json:"kind" validate:"required,caseKind"`
	SubjectID              string                 `json:"subject_id" validate:"required,uuid"`
	StartDate              *time.Time             `json:"start_date,omitempty"`
	ExpectedCompletionDate *time.Time             `json:"expected_completion_date,omitempty"`
	LastWorkingDate        *time.Time             `json:"last_working_date,omitempty"`
	Reason                 *string                `json:"reason,omitempty" validate:"omitempty,max=1000"`
	Notes                  *string                `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Template               *[]TaskTemplateRequest `json:"template,omitempty"`
}

type BulkStartCaseRequest struct {
	Kind                   string                 `json:"kind" validate:"required,caseKind"`
	SubjectIDs             []string               `json:"subject_ids" validate:"required,min=1,dive,uuid"`
	StartDate              *time.Time             `json:"start_date,omitempty"`
	ExpectedCompletionDate *time.Time             `json:"expected_completion_date,omitempty"`
	Notes                  *string                `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Template               *[]TaskTemplateRequest `json:"template,omitempty"`
}

// CasePatch enthält nur die gesendeten Felder des Cases.
type CasePatch struct {
	StartDate              dtos.Optional[time.Time] `json:"start_date"`
	ExpectedCompletionDate dtos.Optional[time.Time] `json:"expected_completion_date"`
	ActualCompletionDate   dtos.Optional[time.Time] `json:"actual_completion_date"`
	Status                 dtos.Optional[string]    `json:"status"`
	Notes                  dtos.Optional[string]    `json:"notes"`
	LastWorkingDate        dtos.Optional[time.Time] `json:"last_working_date"`
	Reason                 dtos.Optional[string]    `json:"reason"`
}

// UpdateCaseRequest: Tasks nil lässt die Task-Liste unberührt, eine leere Liste entfernt alle Tasks.
type UpdateCaseRequest struct {
	CasePatch
	Tasks           *[]TaskInput `json:"tasks,omitempty"`
	ExpectedVersion *int64       `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

// TaskInput ist die vollständige Soll-Darstellung eines Tasks beim Abgleich.
// Ohne ID wird ein neuer Task angelegt.
type TaskInput struct {
	ID          *string    `json:"id,omitempty" validate:"omitempty,uuid"`
	Label       string     `json:"label" validate:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,taskStatus"`
	AssigneeID  *string    `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	Notes       *string    `json:"notes,omitempty"`
}

type ReconcileTasksRequest struct {
	Tasks           *[]TaskInput `json:"tasks" validate:"required"`
	ExpectedVersion *int64       `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

type CompleteCaseRequest struct {
	ActualCompletionDate *time.Time `json:"actual_completion_date,omitempty"`
}

type CreateTaskRequest struct {
	Label       string     `json:"label" validate:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	Notes       *string    `json:"notes,omitempty"`
}

type TaskPatch struct {
	Label       dtos.Optional[string]    `json:"label"`
	Description dtos.Optional[string]    `json:"description"`
	DueDate     dtos.Optional[time.Time] `json:"due_date"`
	CompletedAt dtos.Optional[time.Time] `json:"completed_at"`
	Status      dtos.Optional[string]    `json:"status"`
	AssigneeID  dtos.Optional[string]    `json:"assignee_id"`
	Notes       dtos.Optional[string]    `json:"notes"`
}

type CompleteTaskRequest struct {
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}

type CaseListFilter struct {
	Kind      *string `query:"kind,omitempty" validate:"omitempty,caseKind"`
	Status    *string `query:"status,omitempty" validate:"omitempty,caseStatus"`
	SubjectID *string `query:"subject_id,omitempty" validate:"omitempty,uuid"`
	Limit     int     `query:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Page      int     `query:"page,omitempty" validate:"omitempty,min=1"`
}

type ParamCaseID struct {
	ID string `params:"case_id" validate:"required,uuid"`
}

type ParamTaskID struct {
	ID string `params:"task_id" validate:"required,uuid"`
}
