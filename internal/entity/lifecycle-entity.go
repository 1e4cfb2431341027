package entity

import "time"

// CaseEntity is one onboarding or offboarding process for a single subject.
// The case is the sole owner of its tasks.
type CaseEntity struct {
	ID                     string       `json:"id" db:"id"`
	Kind                   CaseKind     `json:"kind" db:"kind"`
	SubjectID              string       `json:"subject_id" db:"subject_id"`
	StartDate              time.Time    `json:"start_date" db:"start_date"`
	ExpectedCompletionDate *time.Time   `json:"expected_completion_date,omitempty" db:"expected_completion_date"`
	ActualCompletionDate   *time.Time   `json:"actual_completion_date,omitempty" db:"actual_completion_date"`
	Status                 CaseStatus   `json:"status" db:"status"`
	Notes                  *string      `json:"notes,omitempty" db:"notes"`
	LastWorkingDate        *time.Time   `json:"last_working_date,omitempty" db:"last_working_date"`
	Reason                 *string      `json:"reason,omitempty" db:"reason"`
	Version                int64        `json:"version" db:"version"`
	CreatedBy              string       `json:"created_by" db:"created_by"`
	CreatedAt              time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt              *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
	Tasks                  []TaskEntity `json:"tasks,omitempty" db:"-"`
}

// TaskEntity is a single checklist item of a case.
type TaskEntity struct {
	ID          string     `json:"id" db:"id"`
	CaseID      string     `json:"case_id" db:"case_id"`
	Label       string     `json:"label" db:"label"`
	Description *string    `json:"description,omitempty" db:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Status      TaskStatus `json:"status" db:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty" db:"assignee_id"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TaskTemplate describes a default task created together with a case.
// DueDate wins over DueInDays, which is counted from the case start date.
type TaskTemplate struct {
	Label       string     `json:"label"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DueInDays   *int       `json:"due_in_days,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
}

type CaseFilter struct {
	Kind      *CaseKind
	Status    *CaseStatus
	SubjectID *string
	Page      int
	Limit     int
}

// OverdueTask is the projection used by the reminder job.
type OverdueTask struct {
	TaskID        string    `json:"task_id" db:"task_id"`
	Label         string    `json:"label" db:"label"`
	DueDate       time.Time `json:"due_date" db:"due_date"`
	CaseID        string    `json:"case_id" db:"case_id"`
	Kind          CaseKind  `json:"kind" db:"kind"`
	SubjectID     string    `json:"subject_id" db:"subject_id"`
	AssigneeID    string    `json:"assignee_id" db:"assignee_id"`
	AssigneeEmail string    `json:"assignee_email" db:"assignee_email"`
	AssigneeName  string    `json:"assignee_name" db:"assignee_name"`
}

type CaseKind string

const (
	CaseOnboarding  CaseKind = "onboarding"
	CaseOffboarding CaseKind = "offboarding"
)

func (k CaseKind) IsValid() bool {
	switch k {
	case CaseOnboarding, CaseOffboarding:
		return true
	}
	return false
}

type CaseStatus string

const (
	CasePending    CaseStatus = "Pending"
	CaseInProgress CaseStatus = "In_Progress"
	CaseCompleted  CaseStatus = "Completed"
	CaseCancelled  CaseStatus = "Cancelled"
)

// caseTransitions lists the allowed moves out of each non-terminal status.
// Pending may complete directly: completion is not gated on task state.
var caseTransitions = map[CaseStatus][]CaseStatus{
	CasePending:    {CaseInProgress, CaseCompleted, CaseCancelled},
	CaseInProgress: {CaseCompleted, CaseCancelled},
}

func (s CaseStatus) IsValid() bool {
	switch s {
	case CasePending, CaseInProgress, CaseCompleted, CaseCancelled:
		return true
	}
	return false
}

func (s CaseStatus) IsTerminal() bool {
	return s == CaseCompleted || s == CaseCancelled
}

// CanTransitionTo reports whether next is reachable from s. Staying in the
// same status is always allowed and treated as a no-op by callers.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range caseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In_Progress"
	TaskCompleted  TaskStatus = "Completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

type LifecycleEvent string

const (
	EventCreated       LifecycleEvent = "created"
	EventTaskCompleted LifecycleEvent = "task_completed"
	EventCaseCompleted LifecycleEvent = "case_completed"
)
