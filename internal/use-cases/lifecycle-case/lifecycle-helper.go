package lifecycle_case

import (
	"context"
	"reflect"
	"strconv"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	worker_task "github.com/emamhosenCSE/aeos365-hrm/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Snapshots liegen unter einer Generation. Jede Invalidierung erhöht die
// Generation, ein verspätetes Set landet so auf einem verwaisten Schlüssel.
func caseGenKey(caseID string) string {
	return "lifecycle:case:" + caseID + ":gen"
}

func caseDataKey(caseID string, gen int64) string {
	return "lifecycle:case:" + caseID + ":v" + strconv.FormatInt(gen, 10)
}

// authorize fragt das Gate. Ohne Akteur gibt es 401, bei Ablehnung 403.
func (s *LifecycleService) authorize(ctx context.Context, actorID string, action authz.Action, resource authz.Resource) *app_errors.AppError {
	if actorID == "" {
		return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "unauthorized", nil)
	}
	ok, err := s.gate.CanPerform(ctx, actorID, action, resource)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn().Str("actor_id", actorID).Str("action", string(action)).Str("resource_id", resource.ID).Msg("Zugriff verweigert")
		return app_errors.NewAppError(fiber.StatusForbidden, app_errors.ErrForbidden, "forbidden", nil)
	}
	return nil
}

func caseResource(c *entity.CaseEntity) authz.Resource {
	return authz.Resource{Type: entity.ResourceCase, ID: c.ID, SubjectID: c.SubjectID}
}

func taskResource(c *entity.CaseEntity, t *entity.TaskEntity) authz.Resource {
	res := authz.Resource{Type: entity.ResourceTask, ID: t.ID, SubjectID: c.SubjectID}
	if t.AssigneeID != nil {
		res.AssigneeID = *t.AssigneeID
	}
	return res
}

// withTx führt fn in einer Transaktion aus. Commit nur, wenn fn ohne Fehler zurückkehrt.
func (s *LifecycleService) withTx(ctx context.Context, fn func(t tx.Tx) *app_errors.AppError) *app_errors.AppError {
	t, err := s.txManager.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = t.Rollback(ctx)
		}
	}()

	if err := fn(t); err != nil {
		return err
	}
	if err := t.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// lockOpenCase sperrt die Case-Zeile und lehnt abgeschlossene Cases ab.
func (s *LifecycleService) lockOpenCase(ctx context.Context, t tx.Tx, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	c, err := s.repo.GetCaseForUpdate(ctx, t, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status.IsTerminal() {
		return nil, app_errors.NewInvalidStateError("invalid_state.case_closed", string(c.Status))
	}
	return c, nil
}

func (s *LifecycleService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func normTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Microsecond)
	return &v
}

func (s *LifecycleService) invalidate(ctx context.Context, caseID string) {
	gen, err := s.cache.Incr(ctx, caseGenKey(caseID))
	if err != nil {
		log.Warn().Err(err).Str("case_id", caseID).Msg("Cache-Invalidierung fehlgeschlagen")
		return
	}
	if gen < 1 {
		return
	}
	if err := s.cache.Del(ctx, caseDataKey(caseID, gen-1)); err != nil {
		log.Warn().Err(err).Str("case_id", caseID).Msg("Alter Snapshot nicht gelöscht")
	}
}

// emit stellt ein Ereignis nach dem Commit ein. Fehler werden nur geloggt.
func (s *LifecycleService) emit(ctx context.Context, actorID string, event entity.LifecycleEvent, c *entity.CaseEntity, task *entity.TaskEntity) {
	if s.queue == nil {
		return
	}
	eventID, idErr := s.newID()
	if idErr != nil {
		log.Error().Err(idErr).Msg("Event-ID konnte nicht erzeugt werden")
		return
	}

	payload := &worker_task.LifecycleNotificationPayload{
		EventID:    eventID,
		Event:      event,
		CaseID:     c.ID,
		Kind:       c.Kind,
		SubjectID:  c.SubjectID,
		ActorID:    actorID,
		OccurredAt: s.clock(),
	}
	if task != nil {
		payload.TaskID = &task.ID
		payload.TaskLabel = &task.Label
	}

	if err := s.queue.EnqueueLifecycleNotification(ctx, payload); err != nil {
		log.Error().Err(err).Str("event", string(event)).Str("case_id", c.ID).Msg("Failed to enqueue lifecycle event")
	}
}

// audit stellt den Feld-Diff zwischen before und after ein. Leere Diffs entfallen.
func (s *LifecycleService) audit(ctx context.Context, actorID string, action authz.Action, resourceType, resourceID string, before, after any) {
	if s.queue == nil {
		return
	}
	changes := diffFields(before, after)
	if len(changes) == 0 {
		return
	}

	entryID, idErr := s.newID()
	if idErr != nil {
		log.Error().Err(idErr).Msg("Audit-ID konnte nicht erzeugt werden")
		return
	}
	entry := &entity.AuditEntry{
		ID:           entryID,
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changes,
		OccurredAt:   s.clock(),
	}
	if err := s.queue.EnqueueAuditEntry(ctx, entry); err != nil {
		log.Error().Err(err).Str("resource_id", resourceID).Msg("Failed to enqueue audit entry")
	}
}

// fields not worth an audit line
var auditIgnored = map[string]bool{
	"tasks":      true,
	"version":    true,
	"updated_at": true,
	"created_at": true,
}

func diffFields(before, after any) map[string]entity.FieldChange {
	b := toFieldMap(before)
	a := toFieldMap(after)

	changes := map[string]entity.FieldChange{}
	for k, av := range a {
		if auditIgnored[k] {
			continue
		}
		if bv, ok := b[k]; !ok || !reflect.DeepEqual(bv, av) {
			changes[k] = entity.FieldChange{Before: b[k], After: av}
		}
	}
	for k, bv := range b {
		if auditIgnored[k] {
			continue
		}
		if _, ok := a[k]; !ok {
			changes[k] = entity.FieldChange{Before: bv, After: nil}
		}
	}
	return changes
}

func toFieldMap(v any) map[string]any {
	out := map[string]any{}
	if v == nil {
		return out
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

func timeEqual(a, b time.Time) bool { return a.Equal(b) }

func stringEqual(a, b string) bool { return a == b }

func ptrTimeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func ptrStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
