package employee_repo

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
)

// EmployeeRepoContract liest Mitarbeiterdaten für Subjekt-Auflösung und Rollenprüfung.
// Soft-gelöschte Mitarbeiter gelten als nicht vorhanden.
type EmployeeRepoContract interface {
	FindSubjectByID(ctx context.Context, id string) (*entity.SubjectRecord, *app_errors.AppError)
	GetRole(ctx context.Context, id string) (entity.EmployeeRole, *app_errors.AppError)
	InsertEmployee(ctx context.Context, e *entity.SubjectRecord) *app_errors.AppError
}
