package lifecycle_dto

import (
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
)

type TaskResponse struct {
	TaskID      string     `json:"task_id"`
	CaseID      string     `json:"case_id"`
	Label       string     `json:"label"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      string     `json:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type CaseResponse struct {
	CaseID                 string         `json:"case_id"`
	Kind                   string         `json:"kind"`
	SubjectID              string         `json:"subject_id"`
	StartDate              time.Time      `json:"start_date"`
	ExpectedCompletionDate *time.Time     `json:"expected_completion_date,omitempty"`
	ActualCompletionDate   *time.Time     `json:"actual_completion_date,omitempty"`
	Status                 string         `json:"status"`
	Notes                  *string        `json:"notes,omitempty"`
	LastWorkingDate        *time.Time     `json:"last_working_date,omitempty"`
	Reason                 *string        `json:"reason,omitempty"`
	Version                int64          `json:"version"`
	CreatedBy              string         `json:"created_by"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              *time.Time     `json:"updated_at,omitempty"`
	Tasks                  []TaskResponse `json:"tasks"`
}

type CaseListItem struct {
	CaseID    string     `json:"case_id"`
	Kind      string     `json:"kind"`
	SubjectID string     `json:"subject_id"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"start_date"`
	Version   int64      `json:"version"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type BulkFailure struct {
	SubjectID  string `json:"subject_id"`
	Code       int    `json:"code"`
	Type       string `json:"type"`
	MessageKey string `json:"message_key"`
	Reason     string `json:"reason,omitempty"`
}

type BulkStartCaseResponse struct {
	Succeeded []CaseListItem `json:"succeeded"`
	Failed    []BulkFailure  `json:"failed"`
}

type AuditEntryResponse struct {
	EntryID      string                        `json:"entry_id"`
	ActorID      string                        `json:"actor_id"`
	Action       string                        `json:"action"`
	ResourceType string                        `json:"resource_type"`
	ResourceID   string                        `json:"resource_id"`
	Changes      map[string]entity.FieldChange `json:"changes"`
	OccurredAt   time.Time                     `json:"occurred_at"`
}

func ToTaskResponse(t *entity.TaskEntity) TaskResponse {
	return TaskResponse{
		TaskID:      t.ID,
		CaseID:      t.CaseID,
		Label:       t.Label,
		Description: t.Description,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Status:      string(t.Status),
		AssigneeID:  t.AssigneeID,
		Notes:       t.Notes,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToCaseResponse(c *entity.CaseEntity) CaseResponse {
	tasks := make([]TaskResponse, 0, len(c.Tasks))
	for i := range c.Tasks {
		tasks = append(tasks, ToTaskResponse(&c.Tasks[i]))
	}

	return CaseResponse{
		CaseID:                 c.ID,
		Kind:                   string(c.Kind),
		SubjectID:              c.SubjectID,
		StartDate:              c.StartDate,
		ExpectedCompletionDate: c.ExpectedCompletionDate,
		ActualCompletionDate:   c.ActualCompletionDate,
		Status:                 string(c.Status),
		Notes:                  c.Notes,
		LastWorkingDate:        c.LastWorkingDate,
		Reason:                 c.Reason,
		Version:                c.Version,
		CreatedBy:              c.CreatedBy,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
		Tasks:                  tasks,
	}
}

func ToCaseListItem(c *entity.CaseEntity) CaseListItem {
	return CaseListItem{
		CaseID:    c.ID,
		Kind:      string(c.Kind),
		SubjectID: c.SubjectID,
		Status:    string(c.Status),
		StartDate: c.StartDate,
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToAuditEntryResponse(e *entity.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		EntryID:      e.ID,
		ActorID:      e.ActorID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Changes:      e.Changes,
		OccurredAt:   e.OccurredAt,
	}
}
