package worker_handler

import (
	"context"
	"errors"
	"fmt"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/mail"
	worker_task "github.com/emamhosenCSE/aeos365-hrm/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func (wh *WorkerHandler) LifecycleNotification() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p worker_task.LifecycleNotificationPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when trying to unmarshal task payload.")
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		// Case may have been deleted between commit and delivery.
		if _, err := wh.lr.GetCaseByID(ctx, nil, p.CaseID); err != nil {
			if err.Type == app_errors.ErrNotFound {
				log.Info().Str("case_id", p.CaseID).Msg("Worker handler: case gone, notification dropped.")
				return nil
			}
			return err
		}

		subject, err := wh.er.FindSubjectByID(ctx, p.SubjectID)
		if err != nil {
			if err.Type == app_errors.ErrNotFound {
				log.Warn().Str("subject_id", p.SubjectID).Msg("Worker handler: subject gone, notification dropped.")
				return nil
			}
			log.Error().Err(err).Msg("Worker handler: error occured when fetch subject info")
			return err
		}

		msg := &mail.LifecycleMessage{
			Event:        p.Event,
			CaseID:       p.CaseID,
			Kind:         p.Kind,
			SubjectName:  subject.FullName(),
			SubjectEmail: subject.Email,
			OccurredAt:   p.OccurredAt,
		}
		if p.TaskLabel != nil {
			msg.TaskLabel = *p.TaskLabel
		}

		return wh.fanOut(func(n mail.Notifier) error {
			return n.NotifyLifecycleEvent(ctx, msg)
		})
	}
}

// fanOut schickt an alle Kanäle. Fehler nur, wenn kein Kanal zugestellt hat.
func (wh *WorkerHandler) fanOut(send func(n mail.Notifier) error) error {
	if len(wh.notifiers) == 0 {
		return nil
	}

	var errs []error
	for _, n := range wh.notifiers {
		if err := send(n); err != nil {
			log.Error().Err(err).Str("channel", n.Name()).Msg("Worker handler: delivery failed.")
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	if len(errs) == len(wh.notifiers) {
		return errors.Join(errs...)
	}
	return nil
}
