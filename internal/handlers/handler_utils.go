package handlers

import (
	"github.com/emamhosenCSE/aeos365-hrm/internal/dtos"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateResponse erstellt eine standardisierte WebResponse.
func CreateResponse[T any](message string, data T, requestID string, details ...any) dtos.WebResponse[T] {
	return dtos.WebResponse[T]{
		Message:   message,
		Data:      data,
		RequestID: requestID,
		Details:   details,
	}
}

func GetUserID(c *fiber.Ctx) (string, *app_errors.AppError) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "unauthorized", nil)
	}

	return userID, nil
}

func GetRequestID(c *fiber.Ctx) string {
	reqID, ok := c.Locals("request_id").(string)
	if !ok {
		reqID = "unknown"
	}
	return reqID
}

func GetParamCaseID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param lifecycle_dto.ParamCaseID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}

func GetParamTaskID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param lifecycle_dto.ParamTaskID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}

// ParseBody liest den JSON-Body in req und validiert ihn.
func ParseBody(c *fiber.Ctx, v *validator.Validate, req any) *app_errors.AppError {
	if err := c.BodyParser(req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}
	if err := v.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return nil
}

// Respond schreibt die lokalisierte Erfolgsantwort.
func Respond[T any](c *fiber.Ctx, status int, message string, data T, details ...any) error {
	webResp := CreateResponse(message, data, GetRequestID(c), details...)
	if err := c.Status(status).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}
	return nil
}
