package middleware

import (
	"errors"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	internal_i18n "github.com/emamhosenCSE/aeos365-hrm/internal/i18n"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandlerMiddleware behandelt Fehler, die während der Anfrageverarbeitung auftreten.
func ErrorHandlerMiddleware(i18nSvc internal_i18n.Service) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lang, _ := c.Locals("lang").(string)
		if lang == "" {
			lang = c.Get("Accept-Language", "en")
		}

		var appErr *app_errors.AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &fiberErr):
			// z. B. 404 für unbekannte Routen oder 413 vom Body-Limit
			appErr = app_errors.NewAppError(fiberErr.Code, fiberErrorType(fiberErr.Code), "request.failed", err)
		default:
			appErr = app_errors.NewInternalError(err)
		}

		params := map[string]any{}
		if status := appErr.CurrentStatus(); status != "" {
			params["current_status"] = status
		}
		message := i18nSvc.T(lang, appErr.MessageKey, params)

		reqID, _ := c.Locals("request_id").(string)

		respErr := fiber.Map{
			"code":       appErr.Code,
			"type":       appErr.Type,
			"message":    message,
			"request_id": reqID,
		}

		if len(appErr.Details) > 0 {
			var details []fiber.Map

			for _, d := range appErr.Details {
				detail := fiber.Map{
					"field":  d.Field,
					"reason": d.Reason,
					"message": i18nSvc.T(
						lang,
						d.MessageKey,
						d.Params,
					),
				}
				if len(d.Params) > 0 {
					detail["params"] = d.Params
				}
				details = append(details, detail)
			}

			respErr["details"] = details
		}

		if appErr.Err != nil {
			if appErr.Code >= fiber.StatusInternalServerError {
				log.Error().Err(appErr.Err).Str("request_id", reqID).Msg("application error")
			} else {
				log.Debug().Err(appErr.Err).Str("request_id", reqID).Msg("request rejected")
			}
		}

		return c.Status(appErr.Code).JSON(fiber.Map{
			"status": "error",
			"error":  respErr,
		})
	}
}

func fiberErrorType(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return app_errors.ErrNotFound
	case fiber.StatusUnauthorized:
		return app_errors.ErrUnauthorized
	case fiber.StatusForbidden:
		return app_errors.ErrForbidden
	}
	if code >= fiber.StatusInternalServerError {
		return app_errors.ErrInternal
	}
	return app_errors.ErrInvalidBody
}
