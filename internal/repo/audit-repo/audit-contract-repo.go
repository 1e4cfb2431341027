package audit_repo

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
)

// AuditRepoContract schreibt das Audit-Log. InsertEntry ist idempotent pro ID,
// damit wiederholte Worker-Läufe keine Duplikate erzeugen.
type AuditRepoContract interface {
	InsertEntry(ctx context.Context, e *entity.AuditEntry) *app_errors.AppError
	ListByResource(ctx context.Context, resourceID string, limit int) ([]entity.AuditEntry, *app_errors.AppError)
}
