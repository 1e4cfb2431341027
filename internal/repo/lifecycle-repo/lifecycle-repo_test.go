package lifecycle_repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	employee_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/employee-repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestLifecycleRepo_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "hrm",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://user:password@%s:%s/hrm?sslmode=disable", host, port.Port())
	pool, err := db.ConnectPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.MigratePostgres(ctx, pool))
	// zweiter Lauf darf nichts tun
	require.NoError(t, db.MigratePostgres(ctx, pool))

	a := adapter{
		repo:      NewLifecycleRepo(pool),
		employees: employee_repo.NewEmployeeRepo(pool),
		txManager: tx.NewPgxTxManager(pool),
	}
	runRepoSuite(t, a)

	t.Run("case row lock serializes concurrent task writers", func(t *testing.T) {
		assertCaseLockSerializes(t, a)
	})
}

// appendTaskLocked läuft unter der Case-Sperre: Tasks lesen,
// einen Task hinten anhängen, Version erhöhen.
func appendTaskLocked(ctx context.Context, a adapter, txx tx.Tx, caseID, label string) *app_errors.AppError {
	existing, appErr := a.repo.ListTasksByCase(ctx, txx, caseID)
	if appErr != nil {
		return appErr
	}
	task := entity.TaskEntity{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Label:     label,
		Status:    entity.TaskPending,
		Position:  len(existing),
		CreatedAt: baseTime,
	}
	if appErr := a.repo.InsertTasks(ctx, txx, []entity.TaskEntity{task}); appErr != nil {
		return appErr
	}
	_, appErr = a.repo.TouchCase(ctx, txx, caseID, baseTime)
	return appErr
}

func assertCaseLockSerializes(t *testing.T, a adapter) {
	ctx := context.Background()
	subject := a.seedEmployee(t, entity.RoleEmployee)
	c, _ := a.createCase(t, subject, entity.CaseOnboarding, "A")

	first, appErr := a.txManager.Begin(ctx)
	require.Nil(t, appErr)
	_, appErr = a.repo.GetCaseForUpdate(ctx, first, c.ID)
	require.Nil(t, appErr)

	seen := make(chan *entity.CaseEntity, 1)
	failed := make(chan *app_errors.AppError, 1)
	go func() {
		second, appErr := a.txManager.Begin(ctx)
		if appErr != nil {
			failed <- appErr
			return
		}
		got, appErr := a.repo.GetCaseForUpdate(ctx, second, c.ID)
		if appErr == nil {
			appErr = appendTaskLocked(ctx, a, second, c.ID, "second")
		}
		if appErr == nil {
			appErr = second.Commit(ctx)
		}
		if appErr != nil {
			_ = second.Rollback(ctx)
			failed <- appErr
			return
		}
		seen <- got
	}()

	select {
	case <-seen:
		t.Fatal("second transaction got past the row lock while the first held it")
	case appErr := <-failed:
		t.Fatalf("second transaction failed: %v", appErr)
	case <-time.After(300 * time.Millisecond):
	}

	require.Nil(t, appendTaskLocked(ctx, a, first, c.ID, "first"))
	require.Nil(t, first.Commit(ctx))

	select {
	case got := <-seen:
		// der zweite Schreiber sieht den Stand nach dem ersten Commit
		assert.Equal(t, int64(2), got.Version)
	case appErr := <-failed:
		t.Fatalf("second transaction failed: %v", appErr)
	case <-time.After(10 * time.Second):
		t.Fatal("second transaction never acquired the row lock")
	}

	final, appErr := a.repo.GetCaseByID(ctx, nil, c.ID)
	require.Nil(t, appErr)
	assert.Equal(t, int64(3), final.Version)

	tasks, appErr := a.repo.ListTasksByCase(ctx, nil, c.ID)
	require.Nil(t, appErr)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"A", "first", "second"}, []string{tasks[0].Label, tasks[1].Label, tasks[2].Label})
	for i, task := range tasks {
		assert.Equal(t, i, task.Position)
	}
}
