package lifecycle_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	caseColumns = `id, kind, subject_id, start_date, expected_completion_date, actual_completion_date,
		status, notes, last_working_date, reason, version, created_by, created_at, updated_at`
	taskColumns = `id, case_id, label, description, due_date, completed_at,
		status, assignee_id, notes, position, created_at, updated_at`
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type LifecycleRepo struct {
	db *pgxpool.Pool
}

func NewLifecycleRepo(db *pgxpool.Pool) LifecycleRepoContract {
	return &LifecycleRepo{
		db: db,
	}
}

func (r *LifecycleRepo) conn(t tx.Tx) (querier, *app_errors.AppError) {
	if t == nil {
		return r.db, nil
	}
	return tx.PgxFrom(t)
}

func (r *LifecycleRepo) InsertCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) *app_errors.AppError {
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	query := `
	INSERT INTO lifecycle_cases (
			id,
			kind,
			subject_id,
			start_date,
			expected_completion_date,
			actual_completion_date,
			status,
			notes,
			last_working_date,
			reason,
			version,
			created_by,
			created_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
		)
	`

	if _, err := q.Exec(
		ctx,
		query,
		c.ID,
		c.Kind,
		c.SubjectID,
		c.StartDate,
		c.ExpectedCompletionDate,
		c.ActualCompletionDate,
		c.Status,
		c.Notes,
		c.LastWorkingDate,
		c.Reason,
		c.Version,
		c.CreatedBy,
		c.CreatedAt,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *LifecycleRepo) InsertTasks(ctx context.Context, t tx.Tx, tasks []entity.TaskEntity) *app_errors.AppError {
	if len(tasks) == 0 {
		return nil
	}

	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	query := `
	INSERT INTO lifecycle_tasks (
			id,
			case_id,
			label,
			description,
			due_date,
			completed_at,
			status,
			assignee_id,
			notes,
			position,
			created_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
		)
	`

	batch := &pgx.Batch{}
	for _, task := range tasks {
		batch.Queue(query,
			task.ID,
			task.CaseID,
			task.Label,
			task.Description,
			task.DueDate,
			task.CompletedAt,
			task.Status,
			task.AssigneeID,
			task.Notes,
			task.Position,
			task.CreatedAt,
		)
	}

	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for range tasks {
		if _, err := br.Exec(); err != nil {
			return app_errors.MapPgxError(err)
		}
	}

	return nil
}

func (r *LifecycleRepo) GetCaseByID(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	return r.getCase(ctx, t, caseID, "")
}

// GetCaseForUpdate sperrt die Case-Zeile bis zum Ende der Transaktion.
func (r *LifecycleRepo) GetCaseForUpdate(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	if t == nil {
		return nil, app_errors.NewInternalError(errors.New("lifecycle repo: row lock requires a transaction"))
	}
	return r.getCase(ctx, t, caseID, " FOR UPDATE")
}

func (r *LifecycleRepo) getCase(ctx context.Context, t tx.Tx, caseID, suffix string) (*entity.CaseEntity, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return nil, appErr
	}

	query := `SELECT ` + caseColumns + ` FROM lifecycle_cases WHERE id = $1` + suffix

	row, err := scanCase(q.QueryRow(ctx, query, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}

	return &row, nil
}

func (r *LifecycleRepo) ListTasksByCase(ctx context.Context, t tx.Tx, caseID string) ([]entity.TaskEntity, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return nil, appErr
	}

	query := `SELECT ` + taskColumns + ` FROM lifecycle_tasks WHERE case_id = $1 ORDER BY position, created_at`

	rows, err := q.Query(ctx, query, caseID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	results := []entity.TaskEntity{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		results = append(results, task)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}

func (r *LifecycleRepo) UpdateCase(ctx context.Context, t tx.Tx, c *entity.CaseEntity) (int64, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return 0, appErr
	}

	query := `
	UPDATE lifecycle_cases
	SET start_date = $2,
		expected_completion_date = $3,
		actual_completion_date = $4,
		status = $5,
		notes = $6,
		last_working_date = $7,
		reason = $8,
		version = version + 1,
		updated_at = $9
	WHERE id = $1
	RETURNING version;
	`

	var version int64
	if err := q.QueryRow(ctx, query,
		c.ID,
		c.StartDate,
		c.ExpectedCompletionDate,
		c.ActualCompletionDate,
		c.Status,
		c.Notes,
		c.LastWorkingDate,
		c.Reason,
		c.UpdatedAt,
	).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
		}
		return 0, app_errors.MapPgxError(err)
	}

	return version, nil
}

// TouchCase erhöht nur die Version, z. B. nach Änderungen an den Tasks.
func (r *LifecycleRepo) TouchCase(ctx context.Context, t tx.Tx, caseID string, at time.Time) (int64, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return 0, appErr
	}

	query := `
	UPDATE lifecycle_cases
	SET version = version + 1,
		updated_at = $2
	WHERE id = $1
	RETURNING version;
	`

	var version int64
	if err := q.QueryRow(ctx, query, caseID, at).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
		}
		return 0, app_errors.MapPgxError(err)
	}

	return version, nil
}

func (r *LifecycleRepo) DeleteCase(ctx context.Context, t tx.Tx, caseID string) *app_errors.AppError {
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	// lifecycle_tasks folgt per ON DELETE CASCADE
	tag, err := q.Exec(ctx, `DELETE FROM lifecycle_cases WHERE id = $1`, caseID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "case_not_found", nil)
	}

	return nil
}

func (r *LifecycleRepo) GetTaskByID(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return nil, appErr
	}

	query := `SELECT ` + taskColumns + ` FROM lifecycle_tasks WHERE id = $1`

	row, err := scanTask(q.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}

	return &row, nil
}

func (r *LifecycleRepo) UpdateTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	query := `
	UPDATE lifecycle_tasks
	SET label = $2,
		description = $3,
		due_date = $4,
		completed_at = $5,
		status = $6,
		assignee_id = $7,
		notes = $8,
		position = $9,
		updated_at = $10
	WHERE id = $1;
	`

	tag, err := q.Exec(ctx, query,
		task.ID,
		task.Label,
		task.Description,
		task.DueDate,
		task.CompletedAt,
		task.Status,
		task.AssigneeID,
		task.Notes,
		task.Position,
		task.UpdatedAt,
	)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
	}

	return nil
}

func (r *LifecycleRepo) DeleteTasks(ctx context.Context, t tx.Tx, caseID string, taskIDs []string) (int64, *app_errors.AppError) {
	if len(taskIDs) == 0 {
		return 0, nil
	}

	q, appErr := r.conn(t)
	if appErr != nil {
		return 0, appErr
	}

	tag, err := q.Exec(ctx, `DELETE FROM lifecycle_tasks WHERE case_id = $1 AND id = ANY($2::uuid[])`, caseID, taskIDs)
	if err != nil {
		return 0, app_errors.MapPgxError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *LifecycleRepo) HasOpenCase(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) (bool, *app_errors.AppError) {
	q, appErr := r.conn(t)
	if appErr != nil {
		return false, appErr
	}

	query := `
	SELECT EXISTS (
		SELECT 1
		FROM lifecycle_cases
		WHERE subject_id = $1
			AND kind = $2
			AND status IN ('Pending', 'In_Progress')
	);
	`

	var exists bool
	if err := q.QueryRow(ctx, query, subjectID, kind).Scan(&exists); err != nil {
		return false, app_errors.MapPgxError(err)
	}
	return exists, nil
}

// LockSubject serialisiert parallele Starts für dasselbe Subjekt und dieselbe Art.
// Der Advisory-Lock wird mit der Transaktion freigegeben.
func (r *LifecycleRepo) LockSubject(ctx context.Context, t tx.Tx, subjectID string, kind entity.CaseKind) *app_errors.AppError {
	if t == nil {
		return app_errors.NewInternalError(errors.New("lifecycle repo: subject lock requires a transaction"))
	}
	q, appErr := r.conn(t)
	if appErr != nil {
		return appErr
	}

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, subjectID+":"+string(kind)); err != nil {
		return app_errors.MapPgxError(err)
	}
	return nil
}

func (r *LifecycleRepo) ListCases(ctx context.Context, filter entity.CaseFilter) ([]entity.CaseEntity, int64, *app_errors.AppError) {
	where := ` WHERE 1=1`
	args := []any{}
	argsPos := 1

	if filter.Kind != nil {
		where += fmt.Sprintf(" AND kind = $%d", argsPos)
		args = append(args, *filter.Kind)
		argsPos++
	}

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argsPos)
		args = append(args, *filter.Status)
		argsPos++
	}

	if filter.SubjectID != nil {
		where += fmt.Sprintf(" AND subject_id = $%d", argsPos)
		args = append(args, *filter.SubjectID)
		argsPos++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM lifecycle_cases`+where, args...).Scan(&total); err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}

	query := `SELECT ` + caseColumns + ` FROM lifecycle_cases` + where
	query += " ORDER BY created_at DESC, id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d;", argsPos, argsPos+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	results := []entity.CaseEntity{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, app_errors.MapPgxError(err)
		}
		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}

	return results, total, nil
}

func (r *LifecycleRepo) ListOverdueTasks(ctx context.Context, now, remindedBefore time.Time, limit int) ([]entity.OverdueTask, *app_errors.AppError) {
	query := `
	SELECT t.id, t.label, t.due_date, c.id, c.kind, c.subject_id, t.assignee_id,
		e.email, TRIM(e.first_name || ' ' || e.last_name)
	FROM lifecycle_tasks t
	JOIN lifecycle_cases c ON c.id = t.case_id
	JOIN employees e ON e.id = t.assignee_id AND e.deleted_at IS NULL
	WHERE t.status <> 'Completed'
		AND t.due_date < $1
		AND c.status IN ('Pending', 'In_Progress')
		AND (t.last_reminder_at IS NULL OR t.last_reminder_at < $2)
	ORDER BY t.due_date
	LIMIT $3;
	`

	rows, err := r.db.Query(ctx, query, now, remindedBefore, limit)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	results := []entity.OverdueTask{}
	for rows.Next() {
		var o entity.OverdueTask
		if err := rows.Scan(&o.TaskID, &o.Label, &o.DueDate, &o.CaseID, &o.Kind, &o.SubjectID, &o.AssigneeID, &o.AssigneeEmail, &o.AssigneeName); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		results = append(results, o)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}

func (r *LifecycleRepo) MarkTasksReminded(ctx context.Context, taskIDs []string, at time.Time) *app_errors.AppError {
	if len(taskIDs) == 0 {
		return nil
	}

	if _, err := r.db.Exec(ctx, `UPDATE lifecycle_tasks SET last_reminder_at = $2 WHERE id = ANY($1::uuid[])`, taskIDs, at); err != nil {
		return app_errors.MapPgxError(err)
	}
	return nil
}

func scanCase(row pgx.Row) (entity.CaseEntity, error) {
	var c entity.CaseEntity
	err := row.Scan(
		&c.ID,
		&c.Kind,
		&c.SubjectID,
		&c.StartDate,
		&c.ExpectedCompletionDate,
		&c.ActualCompletionDate,
		&c.Status,
		&c.Notes,
		&c.LastWorkingDate,
		&c.Reason,
		&c.Version,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanTask(row pgx.Row) (entity.TaskEntity, error) {
	var t entity.TaskEntity
	err := row.Scan(
		&t.ID,
		&t.CaseID,
		&t.Label,
		&t.Description,
		&t.DueDate,
		&t.CompletedAt,
		&t.Status,
		&t.AssigneeID,
		&t.Notes,
		&t.Position,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}
