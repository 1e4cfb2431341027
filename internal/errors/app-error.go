package app_errors

import "fmt"

// AppError repräsentiert einen Anwendungsfehler mit einem Code, einer Nachricht und optional einem Feld.
type AppError struct {
	Code       int          // HTTP status code
	Type       string       // VALIDATION_ERROR, NOT_FOUND, usw
	MessageKey string       // i18n key
	Details    []FieldError // optional (validation, invalid state)
	Err        error        // original error (internal only)
}

const (
	ErrValidation   = "VALIDATION_ERROR"
	ErrInvalidBody  = "INVALID_BODY"
	ErrInvalidParam = "INVALID_PARAM"
	ErrInvalidQuery = "INVALID_QUERY"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrNotFound     = "NOT_FOUND"
	ErrConflict     = "CONFLICT"
	ErrInvalidState = "INVALID_STATE"
	ErrInternal     = "INTERNAL_ERROR"
)

type FieldError struct {
	Field      string         `json:"field"`
	Reason     string         `json:"reason"`
	MessageKey string         `json:"message_key"`
	Params     map[string]any `json:"params,omitempty"`
}

func NewAppError(code int, errType string, messageKey string, err error) *AppError {
	return &AppError{
		Code:       code,
		Type:       errType,
		MessageKey: messageKey,
		Err:        err,
	}
}

func NewValidationError(details []FieldError) *AppError {
	return &AppError{
		Code:       400,
		Type:       ErrValidation,
		MessageKey: "invalid_request",
		Details:    details,
	}
}

// NewFieldValidationError is a shortcut for a validation error on a single field.
func NewFieldValidationError(field, reason, messageKey string) *AppError {
	return NewValidationError([]FieldError{{
		Field:      field,
		Reason:     reason,
		MessageKey: messageKey,
	}})
}

// NewInvalidStateError reports a rejected status transition. The current status
// travels in the details so the caller can resync its view.
func NewInvalidStateError(messageKey string, currentStatus string) *AppError {
	return &AppError{
		Code:       409,
		Type:       ErrInvalidState,
		MessageKey: messageKey,
		Details: []FieldError{{
			Field:      "status",
			Reason:     "invalid_transition",
			MessageKey: messageKey,
			Params:     map[string]any{"current_status": currentStatus},
		}},
		Err: fmt.Errorf("invalid state transition from %s", currentStatus),
	}
}

// NewInternalError hides the cause behind the generic internal_error key.
func NewInternalError(err error) *AppError {
	return NewAppError(500, ErrInternal, "internal_error", err)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.MessageKey
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CurrentStatus returns the status carried by an INVALID_STATE error, if any.
func (e *AppError) CurrentStatus() string {
	for _, d := range e.Details {
		if s, ok := d.Params["current_status"].(string); ok {
			return s
		}
	}
	return ""
}
