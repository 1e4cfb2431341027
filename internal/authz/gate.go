package authz

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/rs/zerolog/log"
)

type Action string

const (
	ActionCaseCreate   Action = "case:create"
	ActionCaseRead     Action = "case:read"
	ActionCaseUpdate   Action = "case:update"
	ActionCaseComplete Action = "case:complete"
	ActionCaseCancel   Action = "case:cancel"
	ActionCaseDelete   Action = "case:delete"

	ActionTaskCreate   Action = "task:create"
	ActionTaskRead     Action = "task:read"
	ActionTaskUpdate   Action = "task:update"
	ActionTaskComplete Action = "task:complete"
	ActionTaskDelete   Action = "task:delete"
)

// Resource beschreibt, worauf eine Aktion zielt. SubjectID und AssigneeID
// sind gesetzt, soweit sie für die Entscheidung bekannt sind.
type Resource struct {
	Type       string
	ID         string
	SubjectID  string
	AssigneeID string
}

// Gate entscheidet, ob ein Akteur eine Aktion ausführen darf.
type Gate interface {
	CanPerform(ctx context.Context, actorID string, action Action, resource Resource) (bool, *app_errors.AppError)
}

// RoleSource liefert die Rolle eines Akteurs.
type RoleSource interface {
	GetRole(ctx context.Context, id string) (entity.EmployeeRole, *app_errors.AppError)
}

// RoleGate ist die Standard-Policy auf Basis von employees.role.
type RoleGate struct {
	roles RoleSource
}

func NewRoleGate(roles RoleSource) *RoleGate {
	return &RoleGate{roles: roles}
}

var managerActions = map[Action]bool{
	ActionCaseRead:     true,
	ActionTaskRead:     true,
	ActionTaskCreate:   true,
	ActionTaskUpdate:   true,
	ActionTaskComplete: true,
}

func (g *RoleGate) CanPerform(ctx context.Context, actorID string, action Action, resource Resource) (bool, *app_errors.AppError) {
	if actorID == "" {
		return false, nil
	}

	role, appErr := g.roles.GetRole(ctx, actorID)
	if appErr != nil {
		// unbekannte Akteure werden abgewiesen, nicht als Fehler gemeldet
		if appErr.Type == app_errors.ErrNotFound {
			log.Warn().Str("actor_id", actorID).Str("action", string(action)).Msg("Unbekannter Akteur")
			return false, nil
		}
		return false, appErr
	}

	return Allows(role, actorID, action, resource), nil
}

// Allows ist die reine Policy-Tabelle.
func Allows(role entity.EmployeeRole, actorID string, action Action, resource Resource) bool {
	switch role {
	case entity.RoleHRAdmin:
		return true
	case entity.RoleHRManager:
		return action != ActionCaseDelete
	case entity.RoleManager:
		return managerActions[action]
	case entity.RoleEmployee:
		switch action {
		case ActionCaseRead:
			return resource.SubjectID != "" && resource.SubjectID == actorID
		case ActionTaskRead:
			return (resource.SubjectID != "" && resource.SubjectID == actorID) ||
				(resource.AssigneeID != "" && resource.AssigneeID == actorID)
		case ActionTaskComplete:
			return resource.AssigneeID != "" && resource.AssigneeID == actorID
		}
	}
	return false
}
