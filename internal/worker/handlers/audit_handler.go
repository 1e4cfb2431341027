package worker_handler

import (
	"context"
	"fmt"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func (wh *WorkerHandler) LifecycleAudit() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var entry entity.AuditEntry
		if err := json.Unmarshal(t.Payload(), &entry); err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when trying to unmarshal audit entry.")
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := wh.ar.InsertEntry(ctx, &entry); err != nil {
			log.Error().Err(err).Str("resource_id", entry.ResourceID).Msg("Worker handler: Failed to persist audit entry")
			return err
		}

		return nil
	}
}
