package lifecycle_case

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/cache"
	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	use_cases "github.com/emamhosenCSE/aeos365-hrm/internal/use-cases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartCase_CreatesCaseWithTasks(t *testing.T) {
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	resp := f.startCase(t, subject, "Laptop", "Badge")

	assert.Equal(t, string(entity.CasePending), resp.Status)
	assert.Equal(t, int64(1), resp.Version)
	assert.Equal(t, f.admin, resp.CreatedBy)
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "Laptop", resp.Tasks[0].Label)
	assert.Equal(t, 1, resp.Tasks[1].Position)
	for _, task := range resp.Tasks {
		assert.Equal(t, string(entity.TaskPending), task.Status)
		assert.Nil(t, task.CompletedAt)
	}

	stored, err := f.svc.GetCase(context.Background(), f.admin, resp.CaseID)
	require.Nil(t, err)
	assert.Len(t, stored.Tasks, 2)
	assert.True(t, stored.StartDate.Equal(fixedNow))

	assert.Equal(t, []entity.LifecycleEvent{entity.EventCreated}, f.queue.Events())
	require.Len(t, f.queue.AuditEntries(), 1)
	assert.Equal(t, string(authz.ActionCaseCreate), f.queue.AuditEntries()[0].Action)
}

func TestStartCase_WithoutTemplateHasNoTasks(t *testing.T) {
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	resp, err := f.svc.StartCase(context.Background(), f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOffboarding),
		SubjectID: subject,
		Reason:    ptr("resignation"),
	})
	require.Nil(t, err)
	assert.Empty(t, resp.Tasks)
	assert.True(t, resp.StartDate.Equal(fixedNow))
}

func TestInitializeWithDefaults_UsesConfiguredTemplate(t *testing.T) {
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	resp, err := f.svc.InitializeWithDefaults(context.Background(), f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subject,
		StartDate: ptr(fixedNow),
	})
	require.Nil(t, err)

	require.Len(t, resp.Tasks, len(config.DefaultOnboardingTemplate))
	for i, tmpl := range config.DefaultOnboardingTemplate {
		assert.Equal(t, tmpl.Label, resp.Tasks[i].Label)
		require.NotNil(t, resp.Tasks[i].DueDate)
		assert.True(t, resp.Tasks[i].DueDate.Equal(fixedNow.AddDate(0, 0, tmpl.DueInDays)))
	}
}

func TestInitializeWithDefaults_ExplicitEmptyTemplate(t *testing.T) {
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	resp, err := f.svc.InitializeWithDefaults(context.Background(), f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subject,
		Template:  &[]lifecycle_dto.TaskTemplateRequest{},
	})
	require.Nil(t, err)
	assert.Empty(t, resp.Tasks)
}

func TestStartCase_UnknownSubject(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.StartCase(context.Background(), f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: uuid.NewString(),
	})

	assert.Nil(t, resp)
	requireType(t, err, app_errors.ErrValidation)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "subject_id", err.Details[0].Field)
	assert.Equal(t, "not_found", err.Details[0].Reason)
	assert.Empty(t, f.queue.Events())
}

func TestStartCase_OnboardingRejectsOffboardingFields(t *testing.T) {
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	_, err := f.svc.StartCase(context.Background(), f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:            string(entity.CaseOnboarding),
		SubjectID:       subject,
		LastWorkingDate: ptr(fixedNow),
	})

	requireType(t, err, app_errors.ErrValidation)
	assert.Equal(t, "offboarding_only", err.Details[0].Reason)
}

func TestStartCase_SingleOpenCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	first := f.startCase(t, subject)

	_, err := f.svc.StartCase(ctx, f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subject,
	})
	requireType(t, err, app_errors.ErrValidation)
	assert.Equal(t, "open_case_exists", err.Details[0].Reason)

	// the other kind is independent
	_, err = f.svc.StartCase(ctx, f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOffboarding),
		SubjectID: subject,
	})
	require.Nil(t, err)

	// a closed case frees the slot
	_, err = f.svc.CancelCase(ctx, f.admin, first.CaseID)
	require.Nil(t, err)
	_, err = f.svc.StartCase(ctx, f.admin, &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: subject,
	})
	assert.Nil(t, err)
}

func TestStartCase_DuplicatesAllowedWhenNotEnforced(t *testing.T) {
	f := newFixture(t)
	f.svc.cfg.EnforceSingleOpenCase = false
	subject := f.seedEmployee(t, entity.RoleEmployee)

	f.startCase(t, subject)
	f.startCase(t, subject)
}

func TestStartCase_EnqueueFailureDoesNotRollBack(t *testing.T) {
	q := new(use_cases.MockTaskQueue)
	q.On("EnqueueLifecycleNotification", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	q.On("EnqueueAuditEntry", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	f := newFixtureWithQueue(t, q)
	subject := f.seedEmployee(t, entity.RoleEmployee)

	resp := f.startCase(t, subject, "Laptop")

	stored, err := f.svc.GetCase(context.Background(), f.admin, resp.CaseID)
	require.Nil(t, err)
	assert.Len(t, stored.Tasks, 1)
	q.AssertNumberOfCalls(t, "EnqueueLifecycleNotification", 1)
}

func TestStartCase_CommitFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	repo := new(MockLifecycleRepo)
	subjects := new(MockSubjectResolver)
	txManager := new(MockTxManager)
	mockTx := new(MockTx)
	q := new(use_cases.MockTaskQueue)

	service := &LifecycleService{
		repo:      repo,
		txManager: txManager,
		subjects:  subjects,
		gate:      allowAll{},
		queue:     q,
		cache:     cache.NoopCache{},
		cfg:       config.DefaultLifecycleConfig(),
		now:       func() time.Time { return fixedNow },
		newID:     newUUIDv7,
	}

	subjects.On("FindSubjectByID", ctx, "subject-1").Return(&entity.SubjectRecord{ID: "subject-1"}, (*app_errors.AppError)(nil))
	txManager.On("Begin", ctx).Return(mockTx, (*app_errors.AppError)(nil))
	repo.On("LockSubject", ctx, mockTx, "subject-1", entity.CaseOnboarding).Return((*app_errors.AppError)(nil))
	repo.On("HasOpenCase", ctx, mockTx, "subject-1", entity.CaseOnboarding).Return(false, (*app_errors.AppError)(nil))
	repo.On("InsertCase", ctx, mockTx, mock.AnythingOfType("*entity.CaseEntity")).Return((*app_errors.AppError)(nil))
	repo.On("InsertTasks", ctx, mockTx, mock.Anything).Return((*app_errors.AppError)(nil))
	mockTx.On("Commit", ctx).Return(app_errors.NewInternalError(errors.New("disk full")))
	mockTx.On("Rollback", ctx).Return((*app_errors.AppError)(nil))

	resp, err := service.StartCase(ctx, "actor-1", &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOnboarding),
		SubjectID: "subject-1",
	})

	assert.Nil(t, resp)
	requireType(t, err, app_errors.ErrInternal)
	mockTx.AssertCalled(t, "Rollback", ctx)
	// nothing is published for an uncommitted case
	q.AssertNotCalled(t, "EnqueueLifecycleNotification", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestStartCase_OpenCaseConflictPublishesNothing(t *testing.T) {
	ctx := context.Background()

	repo := new(MockLifecycleRepo)
	subjects := new(MockSubjectResolver)
	txManager := new(MockTxManager)
	mockTx := new(MockTx)
	q := new(use_cases.MockTaskQueue)

	service := &LifecycleService{
		repo:      repo,
		txManager: txManager,
		subjects:  subjects,
		gate:      allowAll{},
		queue:     q,
		cache:     cache.NoopCache{},
		cfg:       config.DefaultLifecycleConfig(),
		now:       func() time.Time { return fixedNow },
		newID:     newUUIDv7,
	}

	subjects.On("FindSubjectByID", ctx, "subject-1").Return(&entity.SubjectRecord{ID: "subject-1"}, (*app_errors.AppError)(nil))
	txManager.On("Begin", ctx).Return(mockTx, (*app_errors.AppError)(nil))
	repo.On("LockSubject", ctx, mockTx, "subject-1", entity.CaseOffboarding).Return((*app_errors.AppError)(nil))
	repo.On("HasOpenCase", ctx, mockTx, "subject-1", entity.CaseOffboarding).Return(true, (*app_errors.AppError)(nil))
	mockTx.On("Rollback", ctx).Return((*app_errors.AppError)(nil))

	_, err := service.StartCase(ctx, "actor-1", &lifecycle_dto.StartCaseRequest{
		Kind:      string(entity.CaseOffboarding),
		SubjectID: "subject-1",
	})

	requireType(t, err, app_errors.ErrValidation)
	repo.AssertNotCalled(t, "InsertCase", mock.Anything, mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "Commit", mock.Anything)
	q.AssertNotCalled(t, "EnqueueLifecycleNotification", mock.Anything, mock.Anything)
}
