package lifecycle_case

import (
	"context"
	"testing"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	use_cases "github.com/emamhosenCSE/aeos365-hrm/internal/use-cases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// allowAll lässt jeden angemeldeten Akteur zu, für Tests ohne Mitarbeiter-Daten.
type allowAll struct{}

func (allowAll) CanPerform(ctx context.Context, actorID string, action authz.Action, resource authz.Resource) (bool, *app_errors.AppError) {
	return actorID != "", nil
}

// fixture is a service over an in-memory SQLite store with the role gate.
type fixture struct {
	svc   *LifecycleService
	store *repo.Store
	queue *use_cases.MockTaskQueue
	cache *use_cases.MockCache
	admin string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	q := new(use_cases.MockTaskQueue)
	q.On("EnqueueLifecycleNotification", mock.Anything, mock.Anything).Return(nil)
	q.On("EnqueueAuditEntry", mock.Anything, mock.Anything).Return(nil)
	return newFixtureWithQueue(t, q)
}

func newFixtureWithQueue(t *testing.T, q *use_cases.MockTaskQueue) *fixture {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	store := repo.NewSQLiteStore(conn)
	t.Cleanup(store.Close)

	c := use_cases.NewMapCache()
	svc := NewLifecycleService(store, authz.NewRoleGate(store.Employees), q, c, config.DefaultLifecycleConfig()).(*LifecycleService)
	svc.now = func() time.Time { return fixedNow }

	f := &fixture{svc: svc, store: store, queue: q, cache: c}
	f.admin = f.seedEmployee(t, entity.RoleHRAdmin)
	return f
}

func (f *fixture) seedEmployee(t *testing.T, role entity.EmployeeRole) string {
	t.Helper()
	id := uuid.NewString()
	appErr := f.store.Employees.InsertEmployee(context.Background(), &entity.SubjectRecord{
		ID:             id,
		EmployeeNumber: "E-" + id[:8],
		FirstName:      "Test",
		LastName:       string(role),
		Email:          id[:8] + "@example.com",
		Role:           role,
		CreatedAt:      fixedNow,
	})
	require.Nil(t, appErr)
	return id
}

// startCase opens an onboarding case with the given task labels.
func (f *fixture) startCase(t *testing.T, subjectID string, labels ...string) *lifecycle_dto.CaseResponse {
	t.Helper()
	template := make([]lifecycle_dto.TaskTemplateRequest, 0, len(labels))
	for _, l := range labels {
		template = append(template, lifecycle_dto.TaskTemplateRequest{Label: l})
	}
	resp, err := f.svc.StartCase(context.Background(), f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subjectID,
		StartDate: ptr(fixedNow),
		Template:  &template,
	})
	require.Nil(t, err)
	return resp
}

func (f *fixture) countEvents(event entity.LifecycleEvent) int {
	n := 0
	for _, e := range f.queue.Events() {
		if e == event {
			n++
		}
	}
	return n
}

func inputsFrom(tasks []lifecycle_dto.TaskResponse) []lifecycle_dto.TaskInput {
	out := make([]lifecycle_dto.TaskInput, 0, len(tasks))
	for _, tr := range tasks {
		out = append(out, lifecycle_dto.TaskInput{
			ID:          ptr(tr.TaskID),
			Label:       tr.Label,
			Description: tr.Description,
			DueDate:     tr.DueDate,
			Status:      ptr(tr.Status),
			AssigneeID:  tr.AssigneeID,
			Notes:       tr.Notes,
		})
	}
	return out
}

func requireType(t *testing.T, err *app_errors.AppError, errType string) {
	t.Helper()
	require.NotNil(t, err)
	require.Equal(t, errType, err.Type, "message key %s", err.MessageKey)
}
