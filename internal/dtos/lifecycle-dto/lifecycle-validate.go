package lifecycle_dto

import (
	"reflect"
	"strings"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func IsValidCaseKind(fl validator.FieldLevel) bool {
	return entity.CaseKind(fl.Field().String()).IsValid()
}

func IsValidCaseStatus(fl validator.FieldLevel) bool {
	return entity.CaseStatus(fl.Field().String()).IsValid()
}

func IsValidTaskStatus(fl validator.FieldLevel) bool {
	return entity.TaskStatus(fl.Field().String()).IsValid()
}

// NewValidator liefert einen Validator mit den Lifecycle-Tags. Feldnamen in
// Fehlern folgen den JSON- bzw. Query-Namen.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("caseKind", IsValidCaseKind)
	validate.RegisterValidation("caseStatus", IsValidCaseStatus)
	validate.RegisterValidation("taskStatus", IsValidTaskStatus)
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "params"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return validate
}

// Validate prüft die gesendeten Patch-Felder, die der Struct-Validator nicht erreicht.
func (p *CasePatch) Validate() []app_errors.FieldError {
	var out []app_errors.FieldError
	if p.Status.Set {
		if p.Status.Value == nil {
			out = append(out, app_errors.FieldError{Field: "status", Reason: "required", MessageKey: "validation.required"})
		} else if !entity.CaseStatus(*p.Status.Value).IsValid() {
			out = append(out, app_errors.FieldError{Field: "status", Reason: "caseStatus", MessageKey: "validation.case_status"})
		}
	}
	if p.StartDate.Set && p.StartDate.Value == nil {
		out = append(out, app_errors.FieldError{Field: "start_date", Reason: "required", MessageKey: "validation.required"})
	}
	return out
}

func (p *TaskPatch) Validate() []app_errors.FieldError {
	var out []app_errors.FieldError
	if p.Label.Set && (p.Label.Value == nil || strings.TrimSpace(*p.Label.Value) == "") {
		out = append(out, app_errors.FieldError{Field: "label", Reason: "required", MessageKey: "validation.required"})
	}
	if p.Status.Set {
		if p.Status.Value == nil {
			out = append(out, app_errors.FieldError{Field: "status", Reason: "required", MessageKey: "validation.required"})
		} else if !entity.TaskStatus(*p.Status.Value).IsValid() {
			out = append(out, app_errors.FieldError{Field: "status", Reason: "taskStatus", MessageKey: "validation.task_status"})
		}
	}
	if p.AssigneeID.Set && p.AssigneeID.Value != nil {
		if _, err := uuid.Parse(*p.AssigneeID.Value); err != nil {
			out = append(out, app_errors.FieldError{Field: "assignee_id", Reason: "uuid", MessageKey: "validation.uuid"})
		}
	}
	return out
}
