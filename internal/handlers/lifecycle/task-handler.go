package lifecycle_handlers

import (
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

func (h *LifecycleHandler) CreateTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	var req lifecycle_dto.CreateTaskRequest
	if err := handlers.ParseBody(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.CreateTask(c.Context(), userID, caseID, &req)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusCreated, h.msg(c, "response.task_created"), resp)
}

func (h *LifecycleHandler) GetTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetTask(c.Context(), userID, taskID)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.task_fetched"), resp)
}

func (h *LifecycleHandler) UpdateTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	var patch lifecycle_dto.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	resp, err := h.service.UpdateTaskFields(c.Context(), userID, taskID, &patch)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.task_updated"), resp)
}

func (h *LifecycleHandler) CompleteTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	var req lifecycle_dto.CompleteTaskRequest
	if len(c.Body()) > 0 {
		if err := handlers.ParseBody(c, h.validator, &req); err != nil {
			return err
		}
	}

	resp, err := h.service.MarkTaskComplete(c.Context(), userID, taskID, &req)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.task_completed"), resp)
}

func (h *LifecycleHandler) DeleteTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Context(), userID, taskID); err != nil {
		return err
	}
	return handlers.Respond[any](c, fiber.StatusOK, h.msg(c, "response.task_deleted"), nil)
}
