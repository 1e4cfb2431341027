package audit_repo

import (
	"context"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

type AuditSQLiteRepo struct {
	db *sqlx.DB
}

func NewAuditSQLiteRepo(db *sqlx.DB) AuditRepoContract {
	return &AuditSQLiteRepo{
		db: db,
	}
}

type auditRow struct {
	ID           string    `db:"id"`
	ActorID      string    `db:"actor_id"`
	Action       string    `db:"action"`
	ResourceType string    `db:"resource_type"`
	ResourceID   string    `db:"resource_id"`
	Changes      string    `db:"changes"`
	OccurredAt   time.Time `db:"occurred_at"`
}

func (r *AuditSQLiteRepo) InsertEntry(ctx context.Context, e *entity.AuditEntry) *app_errors.AppError {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return app_errors.NewInternalError(err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lifecycle_audit_log (id, actor_id, action, resource_type, resource_id, changes, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.ActorID, e.Action, e.ResourceType, e.ResourceID, string(changes), e.OccurredAt.UTC(),
	)
	if err != nil {
		return app_errors.MapSQLiteError(err)
	}

	return nil
}

func (r *AuditSQLiteRepo) ListByResource(ctx context.Context, resourceID string, limit int) ([]entity.AuditEntry, *app_errors.AppError) {
	var rows []auditRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, actor_id, action, resource_type, resource_id, changes, occurred_at
		FROM lifecycle_audit_log
		WHERE resource_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?`, resourceID, limit)
	if err != nil {
		return nil, app_errors.MapSQLiteError(err)
	}

	results := make([]entity.AuditEntry, 0, len(rows))
	for _, row := range rows {
		e := entity.AuditEntry{
			ID:           row.ID,
			ActorID:      row.ActorID,
			Action:       row.Action,
			ResourceType: row.ResourceType,
			ResourceID:   row.ResourceID,
			OccurredAt:   row.OccurredAt,
		}
		if err := json.Unmarshal([]byte(row.Changes), &e.Changes); err != nil {
			return nil, app_errors.NewInternalError(err)
		}
		results = append(results, e)
	}

	return results, nil
}
