package lifecycle_repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

// LifecycleSQLiteRepo ist der eingebettete Adapter für lokale Läufe und Tests.
// SQLite kennt kein FOR UPDATE; die Datenbank serialisiert Schreiber ohnehin.
type LifecycleSQLiteRepo struct {
	db *sqlx.DB
}

func NewLifecycleSQLiteRepo(db *sqlx.DB) LifecycleRepoContract {
	return &LifecycleSQLiteRepo{
		db: db,
	}
}

func (r *LifecycleSQLiteRepo) conn(t tx.Tx) (sqlx.ExtContext, *app_errors.AppError) {
	if t == nil {
		return r.db, nil
	}
	return tx.SqlxFrom(t)
}

func (r *LifecycleSQLiteRepo) InsertCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) *app_errors.AppError {
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	query := `
	INSERT INTO lifecycle_cases (
		id, kind, subject_id, start_date, expected_completion_date, actual_completion_date,
		status, notes, last_working_date, reason, version, created_by, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := q.ExecContext(ctx, query,
		c.ID, string(c.Kind), c.SubjectID, c.StartDate.UTC(),
		utcPtr(c.ExpectedCompletionDate), utcPtr(c.ActualCompletionDate),
		string(c.Status), c.Notes, utcPtr(c.LastWorkingDate), c.Reason,
		c.Version, c.CreatedBy, c.CreatedAt.UTC(),
	); err != nil {
		return app_errors.MapSQLiteError(err)
	}

	return nil
}

func (r *LifecycleSQLiteRepo) InsertTasks(ctx context.Context, t tx.Tx, tasks []entity.TaskEntity) *app_errors.AppError {
	if len(tasks) == 0 {
		return nil
	}

	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	query := `
	INSERT INTO lifecycle_tasks (
		id, case_id, label, description, due_date, completed_at,
		status, assignee_id, notes, position, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, task := range tasks {
		if _, err := q.ExecContext(ctx, query,
			task.ID, task.CaseID, task.Label, task.Description,
			utcPtr(task.DueDate), utcPtr(task.CompletedAt),
			string(task.Status), task.AssigneeID, task.Notes, task.Position,
			task.CreatedAt.UTC(),
		); err != nil {
			return app_errors.MapSQLiteError(err)
		}
	}

	return nil
}

func (r *LifecycleSQLiteRepo) GetCaseByID(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return nil, appErr
	}

	var row entity.CaseEntity
	if err := sqlx.GetContext(ctx, q, &row, `SELECT `+caseColumns+` FROM lifecycle_cases WHERE id = ?`, caseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
		}
		return nil, app_errors.MapSQLiteError(err)
	}

	return &row, nil
}

func (r *LifecycleSQLiteRepo) GetCaseForUpdate(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	if t == nil {
		return nil, app_errors.NewInternalError(errors.New("lifecycle repo: row lock requires a transaction"))
	}
	return r.GetCaseByID(ctx, t, caseID)
}

func (r *LifecycleSQLiteRepo) ListTasksByCase(ctx context.Context, t tx.Tx, caseID string) ([]entity.TaskEntity, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return nil, appErr
	}

	results := []entity.TaskEntity{}
	if err := sqlx.SelectContext(ctx, q, &results,
		`SELECT `+taskColumns+` FROM lifecycle_tasks WHERE case_id = ? ORDER BY position, created_at`, caseID); err != nil {
		return nil, app_errors.MapSQLiteError(err)
	}

	return results, nil
}

func (r *LifecycleSQLiteRepo) UpdateCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) (int64, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return 0, appErr
	}

	query := `
	UPDATE lifecycle_cases
	SET start_date = ?,
		expected_completion_date = ?,
		actual_completion_date = ?,
		status = ?,
		notes = ?,
		last_working_date = ?,
		reason = ?,
		version = version + 1,
		updated_at = ?
	WHERE id = ?
	RETURNING version`

	var version int64
	if err := q.QueryRowxContext(ctx, query,
		c.StartDate.UTC(), utcPtr(c.ExpectedCompletionDate), utcPtr(c.ActualCompletionDate),
		string(c.Status), c.Notes, utcPtr(c.LastWorkingDate), c.Reason,
		utcPtr(c.UpdatedAt), c.ID,
	).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
		}
		return 0, app_errors.MapSQLiteError(err)
	}

	return version, nil
}

func (r *LifecycleSQLiteRepo) TouchCase(ctx context.Context, t tx.Tx, caseID string, at time.Time) (int64, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return 0, appErr
	}

	var version int64
	if err := q.QueryRowxContext(ctx,
		`UPDATE lifecycle_cases SET version = version + 1, updated_at = ? WHERE id = ? RETURNING version`,
		at.UTC(), caseID,
	).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
		}
		return 0, app_errors.MapSQLiteError(err)
	}

	return version, nil
}

func (r *LifecycleSQLiteRepo) DeleteCase(ctx context.Context, t tx.Tx, caseID string) *app_errors.AppError {
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	res, err := q.ExecContext(ctx, `DELETE FROM lifecycle_cases WHERE id = ?`, caseID)
	if err != nil {
		return app_errors.MapSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return app_errors.MapSQLiteError(err)
	}
	if n == 0 {
		return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
	}

	return nil
}

func (r *LifecycleSQLiteRepo) GetTaskByID(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return nil, appErr
	}

	var row entity.TaskEntity
	if err := sqlx.GetContext(ctx, q, &row, `SELECT `+taskColumns+` FROM lifecycle_tasks WHERE id = ?`, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
		}
		return nil, app_errors.MapSQLiteError(err)
	}

	return &row, nil
}

func (r *LifecycleSQLiteRepo) UpdateTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	query := `
	UPDATE lifecycle_tasks
	SET label = ?,
		description = ?,
		due_date = ?,
		completed_at = ?,
		status = ?,
		assignee_id = ?,
		notes = ?,
		position = ?,
		updated_at = ?
	WHERE id = ?`

	res, err := q.ExecContext(ctx, query,
		task.Label, task.Description, utcPtr(task.DueDate), utcPtr(task.CompletedAt),
		string(task.Status), task.AssigneeID, task.Notes, task.Position,
		utcPtr(task.UpdatedAt), task.ID,
	)
	if err != nil {
		return app_errors.MapSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return app_errors.MapSQLiteError(err)
	}
	if n == 0 {
		return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
	}

	return nil
}

func (r *LifecycleSQLiteRepo) DeleteTasks(ctx context.Context, t tx.Tx, caseID string, taskIDs []string) (int64, *app_errors.AppError) {
	if len(taskIDs) == 0 {
		return 0, nil
	}

	q, appErr := r.conn(t)
	if appErr != nil {
		return 0, appErr
	}

	query, args, err := sqlx.In(`DELETE FROM lifecycle_tasks WHERE case_id = ? AND id IN (?)`, caseID, taskIDs)
	if err != nil {
		return 0, app_errors.NewInternalError(err)
	}

	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, app_errors.MapSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, app_errors.MapSQLiteError(err)
	}

	return n, nil
}

func (r *LifecycleSQLiteRepo) HasOpenCase(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) (bool, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return false, appErr
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, `
		SELECT COUNT(*) FROM lifecycle_cases
		WHERE subject_id = ? AND kind = ? AND status IN ('Pending', 'In_Progress')`,
		subjectID, string(kind),
	); err != nil {
		return false, app_errors.MapSQLiteError(err)
	}

	return count > 0, nil
}

// LockSubject ist bei SQLite ein No-op: Schreibtransaktionen laufen ohnehin seriell.
func (r *LifecycleSQLiteRepo) LockSubject(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) *app_errors.AppError {
	if t == nil {
		return app_errors.NewInternalError(errors.New("lifecycle repo: subject lock requires a transaction"))
	}
	return nil
}

func (r *LifecycleSQLiteRepo) ListCases(ctx context.Context, filter entity.CaseFilter) ([]entity.CaseEntity, int64, *app_errors.AppError) {
	var conditions []string
	var args []any

	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.SubjectID != nil {
		conditions = append(conditions, "subject_id = ?")
		args = append(args, *filter.SubjectID)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM lifecycle_cases`+where, args...); err != nil {
		return nil, 0, app_errors.MapSQLiteError(err)
	}

	query := `SELECT ` + caseColumns + ` FROM lifecycle_cases` + where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	results := []entity.CaseEntity{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, 0, app_errors.MapSQLiteError(err)
	}

	return results, total, nil
}

func (r *LifecycleSQLiteRepo) ListOverdueTasks(ctx context.Context, now, remindedBefore time.Time, limit int) ([]entity.OverdueTask, *app_errors.AppError) {
	query := `
	SELECT t.id AS task_id, t.label, t.due_date, c.id AS case_id, c.kind, c.subject_id,
		t.assignee_id, e.email AS assignee_email,
		TRIM(e.first_name || ' ' || e.last_name) AS assignee_name
	FROM lifecycle_tasks t
	JOIN lifecycle_cases c ON c.id = t.case_id
	JOIN employees e ON e.id = t.assignee_id AND e.deleted_at IS NULL
	WHERE t.status <> 'Completed'
		AND t.due_date < ?
		AND c.status IN ('Pending', 'In_Progress')
		AND (t.last_reminder_at IS NULL OR t.last_reminder_at < ?)
	ORDER BY t.due_date
	LIMIT ?`

	results := []entity.OverdueTask{}
	if err := r.db.SelectContext(ctx, &results, query, now.UTC(), remindedBefore.UTC(), limit); err != nil {
		return nil, app_errors.MapSQLiteError(err)
	}

	return results, nil
}

func (r *LifecycleSQLiteRepo) MarkTasksReminded(ctx context.Context, taskIDs []string, at time.Time) *app_errors.AppError {
	if len(taskIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE lifecycle_tasks SET last_reminder_at = ? WHERE id IN (?)`, at.UTC(), taskIDs)
	if err != nil {
		return app_errors.NewInternalError(err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return app_errors.MapSQLiteError(err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
