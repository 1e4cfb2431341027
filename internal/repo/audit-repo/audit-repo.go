package audit_repo

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	db *pgxpool.Pool
}

func NewAuditRepo(db *pgxpool.Pool) AuditRepoContract {
	return &AuditRepo{
		db: db,
	}
}

func (r *AuditRepo) InsertEntry(ctx context.Context, e *entity.AuditEntry) *app_errors.AppError {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return app_errors.NewInternalError(err)
	}

	query := `
	INSERT INTO lifecycle_audit_log (
			id,
			actor_id,
			action,
			resource_type,
			resource_id,
			changes,
			occurred_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7
		)
	ON CONFLICT (id) DO NOTHING;
	`

	if _, err := r.db.Exec(ctx, query,
		e.ID,
		e.ActorID,
		e.Action,
		e.ResourceType,
		e.ResourceID,
		changes,
		e.OccurredAt,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *AuditRepo) ListByResource(ctx context.Context, resourceID string, limit int) ([]entity.AuditEntry, *app_errors.AppError) {
	query := `
	SELECT id, actor_id, action, resource_type, resource_id, changes, occurred_at
	FROM lifecycle_audit_log
	WHERE resource_id = $1
	ORDER BY occurred_at DESC
	LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, resourceID, limit)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	results := []entity.AuditEntry{}
	for rows.Next() {
		var e entity.AuditEntry
		var changes []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.ResourceType, &e.ResourceID, &changes, &e.OccurredAt); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		if err := json.Unmarshal(changes, &e.Changes); err != nil {
			return nil, app_errors.NewInternalError(err)
		}
		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}
