package lifecycle_handlers

import (
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/handlers"
	internal_i18n "github.com/emamhosenCSE/aeos365-hrm/internal/i18n"
	lifecycle_case "github.com/emamhosenCSE/aeos365-hrm/internal/use-cases/lifecycle-case"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type LifecycleHandler struct {
	validator *validator.Validate
	service   lifecycle_case.LifecycleServiceContract
	i18n      internal_i18n.Service
}

func NewLifecycleHandler(service lifecycle_case.LifecycleServiceContract, i18n internal_i18n.Service) *LifecycleHandler {
	return &LifecycleHandler{
		validator: lifecycle_dto.NewValidator(),
		service:   service,
		i18n:      i18n,
	}
}

func (h *LifecycleHandler) msg(c *fiber.Ctx, key string) string {
	lang, _ := c.Locals("lang").(string)
	return h.i18n.T(lang, key, nil)
}

// StartCase legt einen Case an. Ohne "template" greift die Standardvorlage der Art.
func (h *LifecycleHandler) StartCase(c *fiber.Ctx) error {
	var req lifecycle_dto.StartCaseRequest
	if err := handlers.ParseBody(c, h.validator, &req); err != nil {
		return err
	}

	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.InitializeWithDefaults(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusCreated, h.msg(c, "response.case_created"), resp)
}

func (h *LifecycleHandler) BulkStartCases(c *fiber.Ctx) error {
	var req lifecycle_dto.BulkStartCaseRequest
	if err := handlers.ParseBody(c, h.validator, &req); err != nil {
		return err
	}

	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.BulkInitialize(c.Context(), userID, &req)
	if err != nil {
		return err
	}

	// Teilerfolge sind kein Fehler; der Aufrufer liest "failed"
	status := fiber.StatusCreated
	if len(resp.Failed) > 0 {
		status = fiber.StatusMultiStatus
	}
	return handlers.Respond(c, status, h.msg(c, "response.cases_bulk_started"), resp)
}

func (h *LifecycleHandler) ListCases(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	var filter lifecycle_dto.CaseListFilter
	if err := c.QueryParser(&filter); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidQuery, "request.invalid_query", err)
	}
	if err := h.validator.Struct(filter); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	items, meta, appErr := h.service.ListCases(c.Context(), userID, filter)
	if appErr != nil {
		return appErr
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.cases_listed"), items, meta)
}

func (h *LifecycleHandler) GetCase(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetCase(c.Context(), userID, caseID)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.case_fetched"), resp)
}

func (h *LifecycleHandler) CaseHistory(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.CaseHistory(c.Context(), userID, caseID, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.case_history_fetched"), resp)
}

func (h *LifecycleHandler) UpdateCase(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	var req lifecycle_dto.UpdateCaseRequest
	if err := handlers.ParseBody(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.UpdateCase(c.Context(), userID, caseID, &req)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.case_updated"), resp)
}

func (h *LifecycleHandler) ReconcileTasks(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	var req lifecycle_dto.ReconcileTasksRequest
	if err := handlers.ParseBody(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.ReconcileTasks(c.Context(), userID, caseID, &req)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.tasks_reconciled"), resp)
}

func (h *LifecycleHandler) CompleteCase(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	// Body ist optional
	var req lifecycle_dto.CompleteCaseRequest
	if len(c.Body()) > 0 {
		if err := handlers.ParseBody(c, h.validator, &req); err != nil {
			return err
		}
	}

	resp, err := h.service.CompleteCase(c.Context(), userID, caseID, &req)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.case_completed"), resp)
}

func (h *LifecycleHandler) CancelCase(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.CancelCase(c.Context(), userID, caseID)
	if err != nil {
		return err
	}
	return handlers.Respond(c, fiber.StatusOK, h.msg(c, "response.case_cancelled"), resp)
}

func (h *LifecycleHandler) DeleteCase(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	caseID, err := handlers.GetParamCaseID(c, h.validator)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCase(c.Context(), userID, caseID); err != nil {
		return err
	}
	return handlers.Respond[any](c, fiber.StatusOK, h.msg(c, "response.case_deleted"), nil)
}
