package employee_repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type EmployeeSQLiteRepo struct {
	db *sqlx.DB
}

func NewEmployeeSQLiteRepo(db *sqlx.DB) EmployeeRepoContract {
	return &EmployeeSQLiteRepo{
		db: db,
	}
}

func (r *EmployeeSQLiteRepo) FindSubjectByID(ctx context.Context, id string) (*entity.SubjectRecord, *app_errors.AppError) {
	var row entity.SubjectRecord
	err := r.db.GetContext(ctx, &row, `
		SELECT id, employee_number, first_name, last_name, email, role, department_id, manager_id, created_at
		FROM employees
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "subject_not_found", nil)
		}
		return nil, app_errors.MapSQLiteError(err)
	}

	return &row, nil
}

func (r *EmployeeSQLiteRepo) GetRole(ctx context.Context, id string) (entity.EmployeeRole, *app_errors.AppError) {
	var role string
	err := r.db.GetContext(ctx, &role, `SELECT role FROM employees WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "subject_not_found", nil)
		}
		return "", app_errors.MapSQLiteError(err)
	}

	return entity.EmployeeRole(role), nil
}

func (r *EmployeeSQLiteRepo) InsertEmployee(ctx context.Context, e *entity.SubjectRecord) *app_errors.AppError {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, employee_number, first_name, last_name, email, role, department_id, manager_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, string(e.Role),
		e.DepartmentID, e.ManagerID, e.CreatedAt.UTC(),
	)
	if err != nil {
		return app_errors.MapSQLiteError(err)
	}

	return nil
}
