package lifecycle_case

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type taskChange struct {
	before entity.TaskEntity
	after  entity.TaskEntity
}

// taskPlan ist das Ergebnis des ID-Abgleichs. Deletes werden zuerst ermittelt.
type taskPlan struct {
	deletes []entity.TaskEntity
	updates []taskChange
	creates []entity.TaskEntity
}

func (p *taskPlan) empty() bool {
	return len(p.deletes) == 0 && len(p.updates) == 0 && len(p.creates) == 0
}

func (p *taskPlan) deleteIDs() []string {
	ids := make([]string, 0, len(p.deletes))
	for _, d := range p.deletes {
		ids = append(ids, d.ID)
	}
	return ids
}

// newlyCompleted liefert die Tasks, die durch den Plan auf Completed wechseln.
func (p *taskPlan) newlyCompleted() []entity.TaskEntity {
	var out []entity.TaskEntity
	for _, u := range p.updates {
		if u.before.Status != entity.TaskCompleted && u.after.Status == entity.TaskCompleted {
			out = append(out, u.after)
		}
	}
	for _, c := range p.creates {
		if c.Status == entity.TaskCompleted {
			out = append(out, c)
		}
	}
	return out
}

// resolveTaskStatus wendet die Completed-Regeln an: ein Datum erzwingt
// Completed, Completed ohne Datum behält das alte oder stempelt now, jeder
// andere Status leert completed_at. Ein Datum zusammen mit einem anderen
// Status muss vorher abgelehnt werden.
func resolveTaskStatus(current entity.TaskStatus, currentAt *time.Time, status *string, completedAt *time.Time, now time.Time) (entity.TaskStatus, *time.Time) {
	next := current
	if status != nil {
		next = entity.TaskStatus(*status)
	}

	if completedAt != nil {
		return entity.TaskCompleted, normTime(completedAt)
	}
	if next != entity.TaskCompleted {
		return next, nil
	}
	if current == entity.TaskCompleted && currentAt != nil {
		return next, currentAt
	}
	stamp := now
	return next, &stamp
}

func planTaskReconciliation(caseID string, existing []entity.TaskEntity, incoming []lifecycle_dto.TaskInput, now time.Time, newID func() (string, error)) (*taskPlan, *app_errors.AppError) {
	byID := make(map[string]entity.TaskEntity, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	var details []app_errors.FieldError
	seen := make(map[string]bool, len(incoming))
	for i, in := range incoming {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if strings.TrimSpace(in.Label) == "" {
			details = append(details, app_errors.FieldError{Field: prefix + ".label", Reason: "required", MessageKey: "validation.required"})
		}
		if in.Status != nil && !entity.TaskStatus(*in.Status).IsValid() {
			details = append(details, app_errors.FieldError{Field: prefix + ".status", Reason: "taskStatus", MessageKey: "validation.task_status"})
		}
		if in.CompletedAt != nil && in.Status != nil && entity.TaskStatus(*in.Status) != entity.TaskCompleted {
			details = append(details, app_errors.FieldError{Field: prefix + ".completed_at", Reason: "requires_completed_status", MessageKey: "validation.completed_at_requires_completed"})
		}
		if in.ID == nil {
			continue
		}
		if _, ok := byID[*in.ID]; !ok {
			details = append(details, app_errors.FieldError{Field: prefix + ".id", Reason: "unknown_task", MessageKey: "validation.task_not_in_case"})
			continue
		}
		if seen[*in.ID] {
			details = append(details, app_errors.FieldError{Field: prefix + ".id", Reason: "duplicate", MessageKey: "validation.duplicate_task"})
			continue
		}
		seen[*in.ID] = true
	}
	if len(details) > 0 {
		return nil, app_errors.NewValidationError(details)
	}

	plan := &taskPlan{}
	for _, t := range existing {
		if !seen[t.ID] {
			plan.deletes = append(plan.deletes, t)
		}
	}

	for i, in := range incoming {
		if in.ID != nil {
			before := byID[*in.ID]
			after := before
			after.Label = in.Label
			after.Description = in.Description
			after.DueDate = normTime(in.DueDate)
			after.AssigneeID = in.AssigneeID
			after.Notes = in.Notes
			after.Position = i
			after.Status, after.CompletedAt = resolveTaskStatus(before.Status, before.CompletedAt, in.Status, in.CompletedAt, now)

			if !sameTask(&before, &after) {
				stamp := now
				after.UpdatedAt = &stamp
				plan.updates = append(plan.updates, taskChange{before: before, after: after})
			}
			continue
		}

		id, err := newID()
		if err != nil {
			return nil, app_errors.NewInternalError(err)
		}
		task := entity.TaskEntity{
			ID:          id,
			CaseID:      caseID,
			Label:       in.Label,
			Description: in.Description,
			DueDate:     normTime(in.DueDate),
			AssigneeID:  in.AssigneeID,
			Notes:       in.Notes,
			Position:    i,
			CreatedAt:   now,
		}
		task.Status, task.CompletedAt = resolveTaskStatus(entity.TaskPending, nil, in.Status, in.CompletedAt, now)
		plan.creates = append(plan.creates, task)
	}

	return plan, nil
}

func sameTask(a, b *entity.TaskEntity) bool {
	return a.Label == b.Label &&
		ptrStringEqual(a.Description, b.Description) &&
		ptrTimeEqual(a.DueDate, b.DueDate) &&
		ptrTimeEqual(a.CompletedAt, b.CompletedAt) &&
		a.Status == b.Status &&
		ptrStringEqual(a.AssigneeID, b.AssigneeID) &&
		ptrStringEqual(a.Notes, b.Notes) &&
		a.Position == b.Position
}

// applyPlan schreibt den Plan in der Reihenfolge delete, update, create.
func (s *LifecycleService) applyPlan(ctx context.Context, t tx.Tx, caseID string, plan *taskPlan) *app_errors.AppError {
	if len(plan.deletes) > 0 {
		if _, err := s.repo.DeleteTasks(ctx, t, caseID, plan.deleteIDs()); err != nil {
			return err
		}
	}
	for i := range plan.updates {
		if err := s.repo.UpdateTask(ctx, t, &plan.updates[i].after); err != nil {
			return err
		}
	}
	if len(plan.creates) > 0 {
		if err := s.repo.InsertTasks(ctx, t, plan.creates); err != nil {
			return err
		}
	}
	return nil
}

// publishPlan schreibt pro betroffenem Task einen Audit-Eintrag und meldet Abschlüsse.
func (s *LifecycleService) publishPlan(ctx context.Context, actorID string, c *entity.CaseEntity, plan *taskPlan) {
	for i := range plan.deletes {
		s.audit(ctx, actorID, authz.ActionTaskDelete, entity.ResourceTask, plan.deletes[i].ID, &plan.deletes[i], nil)
	}
	for i := range plan.updates {
		s.audit(ctx, actorID, authz.ActionTaskUpdate, entity.ResourceTask, plan.updates[i].after.ID, &plan.updates[i].before, &plan.updates[i].after)
	}
	for i := range plan.creates {
		s.audit(ctx, actorID, authz.ActionTaskCreate, entity.ResourceTask, plan.creates[i].ID, nil, &plan.creates[i])
	}
	for _, done := range plan.newlyCompleted() {
		task := done
		s.emit(ctx, actorID, entity.EventTaskCompleted, c, &task)
	}
}

func (s *LifecycleService) ReconcileTasks(ctx context.Context, actorID, caseID string, req *lifecycle_dto.ReconcileTasksRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	if req == nil || req.Tasks == nil {
		return nil, app_errors.NewFieldValidationError("tasks", "required", "validation.required")
	}

	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseUpdate, caseResource(current)); err != nil {
		return nil, err
	}

	var c *entity.CaseEntity
	var plan *taskPlan
	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		locked, err := s.lockOpenCase(ctx, t, caseID)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != locked.Version {
			return versionMismatch(locked.Version)
		}

		existing, err := s.repo.ListTasksByCase(ctx, t, caseID)
		if err != nil {
			return err
		}
		plan, err = planTaskReconciliation(caseID, existing, *req.Tasks, s.clock(), s.newID)
		if err != nil {
			return err
		}

		if !plan.empty() {
			if err := s.applyPlan(ctx, t, caseID, plan); err != nil {
				return err
			}
			now := s.clock()
			version, err := s.repo.TouchCase(ctx, t, caseID, now)
			if err != nil {
				return err
			}
			locked.Version = version
			locked.UpdatedAt = &now
		}

		locked.Tasks, err = s.repo.ListTasksByCase(ctx, t, caseID)
		if err != nil {
			return err
		}
		c = locked
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if !plan.empty() {
		s.invalidate(ctx, caseID)
		s.publishPlan(ctx, actorID, c, plan)
	}

	resp := lifecycle_dto.ToCaseResponse(c)
	return &resp, nil
}

func versionMismatch(current int64) *app_errors.AppError {
	return &app_errors.AppError{
		Code:       fiber.StatusConflict,
		Type:       app_errors.ErrConflict,
		MessageKey: "conflict.version_mismatch",
		Details: []app_errors.FieldError{{
			Field:      "expected_version",
			Reason:     "version_mismatch",
			MessageKey: "conflict.version_mismatch",
			Params:     map[string]any{"current_version": current},
		}},
		Err: fmt.Errorf("version mismatch, current %d", current),
	}
}
