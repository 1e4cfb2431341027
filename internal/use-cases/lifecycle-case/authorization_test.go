package lifecycle_case

import (
	"context"
	"testing"

	"github.com/emamhosenCSE/aeos365-hrm/internal/dtos"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorization_EmployeeSeesOwnCaseOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)
	other := f.seedEmployee(t, entity.RoleEmployee)
	started := f.startCase(t, subject, "A")

	_, err := f.svc.GetCase(ctx, subject, started.CaseID)
	assert.Nil(t, err)

	_, err = f.svc.GetCase(ctx, other, started.CaseID)
	requireType(t, err, app_errors.ErrForbidden)

	_, err = f.svc.UpdateCase(ctx, subject, started.CaseID, &lifecycle_dto.UpdateCaseRequest{
		CasePatch: lifecycle_dto.CasePatch{Notes: dtos.Some("mine")},
	})
	requireType(t, err, app_errors.ErrForbidden)
}

func TestAuthorization_AssigneeCompletesTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)
	assignee := f.seedEmployee(t, entity.RoleEmployee)
	stranger := f.seedEmployee(t, entity.RoleEmployee)

	template := []lifecycle_dto.TaskTemplateRequest{{Label: "Sign NDA", AssigneeID: &assignee}}
	started, err := f.svc.StartCase(ctx, f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subject,
		Template:  &template,
	})
	require.Nil(t, err)
	taskID := started.Tasks[0].TaskID

	_, err = f.svc.MarkTaskComplete(ctx, stranger, taskID, nil)
	requireType(t, err, app_errors.ErrForbidden)

	_, err = f.svc.GetTask(ctx, assignee, taskID)
	assert.Nil(t, err)

	done, err := f.svc.MarkTaskComplete(ctx, assignee, taskID, nil)
	require.Nil(t, err)
	assert.Equal(t, string(entity.TaskCompleted), done.Status)
}

func TestAuthorization_OnlyAdminDeletesCases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)
	hrManager := f.seedEmployee(t, entity.RoleHRManager)
	manager := f.seedEmployee(t, entity.RoleManager)
	started := f.startCase(t, subject)

	requireType(t, f.svc.DeleteCase(ctx, manager, started.CaseID), app_errors.ErrForbidden)
	requireType(t, f.svc.DeleteCase(ctx, hrManager, started.CaseID), app_errors.ErrForbidden)

	// hr managers may still run the rest of the lifecycle
	_, err := f.svc.CancelCase(ctx, hrManager, started.CaseID)
	require.Nil(t, err)

	assert.Nil(t, f.svc.DeleteCase(ctx, f.admin, started.CaseID))
}

func TestAuthorization_ManagerCannotStartCases(t *testing.T) {
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)
	manager := f.seedEmployee(t, entity.RoleManager)

	_, err := f.svc.StartCase(context.Background(), manager, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subject,
	})
	requireType(t, err, app_errors.ErrForbidden)
	assert.Empty(t, f.queue.Events())
}

func TestAuthorization_MissingOrUnknownActor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)
	started := f.startCase(t, subject)

	_, err := f.svc.GetCase(ctx, "", started.CaseID)
	requireType(t, err, app_errors.ErrUnauthorized)
	assert.Equal(t, 401, err.Code)

	_, err = f.svc.GetCase(ctx, uuid.NewString(), started.CaseID)
	requireType(t, err, app_errors.ErrForbidden)
	assert.Equal(t, 403, err.Code)
}
