package lifecycle_case

import (
	"context"
	"strings"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/gofiber/fiber/v2"
)

// taskWithCase lädt Task und Eltern-Case außerhalb einer Transaktion für die Rechteprüfung.
func (s *LifecycleService) taskWithCase(ctx context.Context, taskID string) (*entity.TaskEntity, *entity.CaseEntity, *app_errors.AppError) {
	task, err := s.repo.GetTaskByID(ctx, nil, taskID)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.repo.GetCaseByID(ctx, nil, task.CaseID)
	if err != nil {
		return nil, nil, err
	}
	return task, c, nil
}

func (s *LifecycleService) CreateTask(ctx context.Context, actorID, caseID string, req *lifecycle_dto.CreateTaskRequest) (*lifecycle_dto.TaskResponse, *app_errors.AppError) {
	if strings.TrimSpace(req.Label) == "" {
		return nil, app_errors.NewFieldValidationError("label", "required", "validation.required")
	}

	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		if err.Type == app_errors.ErrNotFound {
			return nil, app_errors.NewFieldValidationError("case_id", "not_found", "validation.case_not_found")
		}
		return nil, err
	}
	res := authz.Resource{Type: entity.ResourceTask, SubjectID: current.SubjectID}
	if req.AssigneeID != nil {
		res.AssigneeID = *req.AssigneeID
	}
	if err := s.authorize(ctx, actorID, authz.ActionTaskCreate, res); err != nil {
		return nil, err
	}

	taskID, idErr := s.newID()
	if idErr != nil {
		return nil, app_errors.NewInternalError(idErr)
	}

	var task entity.TaskEntity
	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		if _, err := s.lockOpenCase(ctx, t, caseID); err != nil {
			return err
		}
		existing, err := s.repo.ListTasksByCase(ctx, t, caseID)
		if err != nil {
			return err
		}

		now := s.clock()
		task = entity.TaskEntity{
			ID:          taskID,
			CaseID:      caseID,
			Label:       req.Label,
			Description: req.Description,
			DueDate:     normTime(req.DueDate),
			Status:      entity.TaskPending,
			AssigneeID:  req.AssigneeID,
			Notes:       req.Notes,
			Position:    len(existing),
			CreatedAt:   now,
		}
		if err := s.repo.InsertTasks(ctx, t, []entity.TaskEntity{task}); err != nil {
			return err
		}
		_, err = s.repo.TouchCase(ctx, t, caseID, now)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidate(ctx, caseID)
	s.audit(ctx, actorID, authz.ActionTaskCreate, entity.ResourceTask, task.ID, nil, &task)

	resp := lifecycle_dto.ToTaskResponse(&task)
	return &resp, nil
}

func (s *LifecycleService) UpdateTaskFields(ctx context.Context, actorID, taskID string, patch *lifecycle_dto.TaskPatch) (*lifecycle_dto.TaskResponse, *app_errors.AppError) {
	if details := patch.Validate(); len(details) > 0 {
		return nil, app_errors.NewValidationError(details)
	}
	if patch.CompletedAt.Set && patch.CompletedAt.Value != nil &&
		patch.Status.Set && patch.Status.Value != nil && entity.TaskStatus(*patch.Status.Value) != entity.TaskCompleted {
		return nil, app_errors.NewFieldValidationError("completed_at", "requires_completed_status", "validation.completed_at_requires_completed")
	}

	task, c, err := s.taskWithCase(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionTaskUpdate, taskResource(c, task)); err != nil {
		return nil, err
	}

	var before, after entity.TaskEntity
	changed := false
	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		if _, err := s.lockOpenCase(ctx, t, task.CaseID); err != nil {
			return err
		}
		current, err := s.repo.GetTaskByID(ctx, t, taskID)
		if err != nil {
			return err
		}
		before = *current
		after = *current

		now := s.clock()
		if patch.Label.Set && patch.Label.Value != nil {
			after.Label = *patch.Label.Value
		}
		patch.Description.Apply(&after.Description, stringEqual)
		normalized(patch.DueDate).Apply(&after.DueDate, timeEqual)
		patch.AssigneeID.Apply(&after.AssigneeID, stringEqual)
		patch.Notes.Apply(&after.Notes, stringEqual)

		var status *string
		if patch.Status.Set {
			status = patch.Status.Value
		}
		currentAt := before.CompletedAt
		if patch.CompletedAt.Set && patch.CompletedAt.Value == nil {
			currentAt = nil
		}
		after.Status, after.CompletedAt = resolveTaskStatus(before.Status, currentAt, status, patch.CompletedAt.Value, now)

		if sameTask(&before, &after) {
			return nil
		}
		after.UpdatedAt = &now
		if err := s.repo.UpdateTask(ctx, t, &after); err != nil {
			return err
		}
		if _, err := s.repo.TouchCase(ctx, t, task.CaseID, now); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if changed {
		s.invalidate(ctx, task.CaseID)
		s.audit(ctx, actorID, authz.ActionTaskUpdate, entity.ResourceTask, taskID, &before, &after)
		if before.Status != entity.TaskCompleted && after.Status == entity.TaskCompleted {
			s.emit(ctx, actorID, entity.EventTaskCompleted, c, &after)
		}
	}

	resp := lifecycle_dto.ToTaskResponse(&after)
	return &resp, nil
}

func (s *LifecycleService) MarkTaskComplete(ctx context.Context, actorID, taskID string, req *lifecycle_dto.CompleteTaskRequest) (*lifecycle_dto.TaskResponse, *app_errors.AppError) {
	task, c, err := s.taskWithCase(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionTaskComplete, taskResource(c, task)); err != nil {
		return nil, err
	}

	// already done: nothing to write, nothing to announce
	if task.Status == entity.TaskCompleted {
		resp := lifecycle_dto.ToTaskResponse(task)
		return &resp, nil
	}

	var before, after entity.TaskEntity
	changed := false
	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		if _, err := s.lockOpenCase(ctx, t, task.CaseID); err != nil {
			return err
		}
		current, err := s.repo.GetTaskByID(ctx, t, taskID)
		if err != nil {
			return err
		}
		before = *current
		after = *current
		if current.Status == entity.TaskCompleted {
			return nil
		}

		now := s.clock()
		after.Status = entity.TaskCompleted
		after.CompletedAt = &now
		if req != nil && req.CompletionDate != nil {
			after.CompletedAt = normTime(req.CompletionDate)
		}
		after.UpdatedAt = &now

		if err := s.repo.UpdateTask(ctx, t, &after); err != nil {
			return err
		}
		if _, err := s.repo.TouchCase(ctx, t, task.CaseID, now); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if changed {
		s.invalidate(ctx, task.CaseID)
		s.audit(ctx, actorID, authz.ActionTaskComplete, entity.ResourceTask, taskID, &before, &after)
		s.emit(ctx, actorID, entity.EventTaskCompleted, c, &after)
	}

	resp := lifecycle_dto.ToTaskResponse(&after)
	return &resp, nil
}

func (s *LifecycleService) DeleteTask(ctx context.Context, actorID, taskID string) *app_errors.AppError {
	task, c, err := s.taskWithCase(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actorID, authz.ActionTaskDelete, taskResource(c, task)); err != nil {
		return err
	}

	if err := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		if _, err := s.lockOpenCase(ctx, t, task.CaseID); err != nil {
			return err
		}
		n, err := s.repo.DeleteTasks(ctx, t, task.CaseID, []string{taskID})
		if err != nil {
			return err
		}
		if n == 0 {
			return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
		}
		_, err = s.repo.TouchCase(ctx, t, task.CaseID, s.clock())
		return err
	}); err != nil {
		return err
	}

	s.invalidate(ctx, task.CaseID)
	s.audit(ctx, actorID, authz.ActionTaskDelete, entity.ResourceTask, taskID, task, nil)
	return nil
}

func (s *LifecycleService) GetTask(ctx context.Context, actorID, taskID string) (*lifecycle_dto.TaskResponse, *app_errors.AppError) {
	task, c, err := s.taskWithCase(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionTaskRead, taskResource(c, task)); err != nil {
		return nil, err
	}

	resp := lifecycle_dto.ToTaskResponse(task)
	return &resp, nil
}
