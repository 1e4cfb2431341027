package employee_repo

import (
	"context"
	"errors"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepo struct {
	db *pgxpool.Pool
}

func NewEmployeeRepo(db *pgxpool.Pool) EmployeeRepoContract {
	return &EmployeeRepo{
		db: db,
	}
}

func (r *EmployeeRepo) FindSubjectByID(ctx context.Context, id string) (*entity.SubjectRecord, *app_errors.AppError) {
	query := `
	SELECT id, employee_number, first_name, last_name, email, role, department_id, manager_id, created_at
	FROM employees
	WHERE id = $1
		AND deleted_at IS NULL;
	`

	var row entity.SubjectRecord
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.EmployeeNumber,
		&row.FirstName,
		&row.LastName,
		&row.Email,
		&row.Role,
		&row.DepartmentID,
		&row.ManagerID,
		&row.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "subject_not_found", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}

	return &row, nil
}

func (r *EmployeeRepo) GetRole(ctx context.Context, id string) (entity.EmployeeRole, *app_errors.AppError) {
	query := `
	SELECT role FROM employees
	WHERE id = $1
		AND deleted_at IS NULL;
	`

	var role entity.EmployeeRole
	if err := r.db.QueryRow(ctx, query, id).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "subject_not_found", nil)
		}
		return "", app_errors.MapPgxError(err)
	}
	return role, nil
}

func (r *EmployeeRepo) InsertEmployee(ctx context.Context, e *entity.SubjectRecord) *app_errors.AppError {
	query := `
	INSERT INTO employees (
			id,
			employee_number,
			first_name,
			last_name,
			email,
			role,
			department_id,
			manager_id,
			created_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9
		)
	`

	if _, err := r.db.Exec(ctx, query,
		e.ID,
		e.EmployeeNumber,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Role,
		e.DepartmentID,
		e.ManagerID,
		e.CreatedAt,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}
