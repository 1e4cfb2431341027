package lifecycle_case

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/cache"
	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	"github.com/emamhosenCSE/aeos365-hrm/internal/dtos"
	lifecycle_dto "github.com/emamhosenCSE/aeos365-hrm/internal/dtos/lifecycle-dto"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/queue"
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	audit_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/audit-repo"
	lifecycle_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/lifecycle-repo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageLimit    = 20
	defaultHistoryLimit = 50
)

type LifecycleService struct {
	repo      lifecycle_repo.LifecycleRepoContract
	auditRepo audit_repo.AuditRepoContract
	txManager tx.TxManager
	subjects  SubjectResolver
	gate      authz.Gate
	queue     queue.TaskQueueClient
	cache     cache.Cache
	cfg       config.LifecycleConfig
	now       func() time.Time
	newID     func() (string, error)
}

func NewLifecycleService(store *repo.Store, gate authz.Gate, queue queue.TaskQueueClient, cache cache.Cache, cfg config.LifecycleConfig) LifecycleServiceContract {
	return &LifecycleService{
		repo:      store.Lifecycle,
		auditRepo: store.Audit,
		txManager: store.TxManager,
		subjects:  store.Employees,
		gate:      gate,
		queue:     queue,
		cache:     cache,
		cfg:       cfg,
		now:       time.Now,
		newID:     newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// startInput ist die gemeinsame Eingabe von StartCase, InitializeWithDefaults und BulkInitialize.
type startInput struct {
	Kind                   entity.CaseKind
	SubjectID              string
	StartDate              *time.Time
	ExpectedCompletionDate *time.Time
	LastWorkingDate        *time.Time
	Reason                 *string
	Notes                  *string
	Template               []entity.TaskTemplate
}

func (s *LifecycleService) StartCase(ctx context.Context, actorID string, req *lifecycle_dto.StartCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	var template []entity.TaskTemplate
	if req.Template != nil {
		template = templatesFromRequest(*req.Template)
	}
	return s.startFromRequest(ctx, actorID, req, template)
}

func (s *LifecycleService) InitializeWithDefaults(ctx context.Context, actorID string, req *lifecycle_dto.StartCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	var template []entity.TaskTemplate
	if req.Template != nil {
		template = templatesFromRequest(*req.Template)
	} else {
		template = s.defaultTemplate(entity.CaseKind(req.Kind))
	}
	return s.startFromRequest(ctx, actorID, req, template)
}

func (s *LifecycleService) startFromRequest(ctx context.Context, actorID string, req *lifecycle_dto.StartCaseRequest, template []entity.TaskTemplate) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	c, err := s.start(ctx, actorID, &startInput{
		Kind:                   entity.CaseKind(req.Kind),
		SubjectID:              req.SubjectID,
		StartDate:              req.StartDate,
		ExpectedCompletionDate: req.ExpectedCompletionDate,
		LastWorkingDate:        req.LastWorkingDate,
		Reason:                 req.Reason,
		Notes:                  req.Notes,
		Template:               template,
	})
	if err != nil {
		return nil, err
	}

	resp := lifecycle_dto.ToCaseResponse(c)
	return &resp, nil
}

func (s *LifecycleService) defaultTemplate(kind entity.CaseKind) []entity.TaskTemplate {
	src := s.cfg.Templates.Onboarding
	if kind == entity.CaseOffboarding {
		src = s.cfg.Templates.Offboarding
	}

	out := make([]entity.TaskTemplate, 0, len(src))
	for _, t := range src {
		tmpl := entity.TaskTemplate{Label: t.Label}
		days := t.DueInDays
		tmpl.DueInDays = &days
		if t.Description != "" {
			desc := t.Description
			tmpl.Description = &desc
		}
		out = append(out, tmpl)
	}
	return out
}

func templatesFromRequest(in []lifecycle_dto.TaskTemplateRequest) []entity.TaskTemplate {
	out := make([]entity.TaskTemplate, 0, len(in))
	for _, t := range in {
		out = append(out, entity.TaskTemplate{
			Label:       t.Label,
			Description: t.Description,
			DueDate:     t.DueDate,
			DueInDays:   t.DueInDays,
			AssigneeID:  t.AssigneeID,
		})
	}
	return out
}

func (s *LifecycleService) validateStart(in *startInput) *app_errors.AppError {
	var details []app_errors.FieldError
	if !in.Kind.IsValid() {
		details = append(details, app_errors.FieldError{Field: "kind", Reason: "caseKind", MessageKey: "validation.case_kind"})
	}
	if strings.TrimSpace(in.SubjectID) == "" {
		details = append(details, app_errors.FieldError{Field: "subject_id", Reason: "required", MessageKey: "validation.required"})
	}
	if in.Kind == entity.CaseOnboarding {
		if in.LastWorkingDate != nil {
			details = append(details, app_errors.FieldError{Field: "last_working_date", Reason: "offboarding_only", MessageKey: "validation.offboarding_only"})
		}
		if in.Reason != nil {
			details = append(details, app_errors.FieldError{Field: "reason", Reason: "offboarding_only", MessageKey: "validation.offboarding_only"})
		}
	}
	for i, t := range in.Template {
		if strings.TrimSpace(t.Label) == "" {
			details = append(details, app_errors.FieldError{Field: fmt.Sprintf("template[%d].label", i), Reason: "required", MessageKey: "validation.required"})
		}
	}
	if len(details) > 0 {
		return app_errors.NewValidationError(details)
	}
	return nil
}

// start legt Case und Template-Tasks in einer Transaktion an.
func (s *LifecycleService) start(ctx context.Context, actorID string, in *startInput) (*entity.CaseEntity, *app_errors.AppError) {
	if err := s.validateStart(in); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseCreate, authz.Resource{Type: entity.ResourceCase, SubjectID: in.SubjectID}); err != nil {
		return nil, err
	}

	if _, err := s.subjects.FindSubjectByID(ctx, in.SubjectID); err != nil {
		if err.Type == app_errors.ErrNotFound {
			return nil, app_errors.NewFieldValidationError("subject_id", "not_found", "validation.subject_not_found")
		}
		return nil, err
	}

	now := s.clock()
	startDate := now
	if in.StartDate != nil {
		startDate = *normTime(in.StartDate)
	}
	expected := normTime(in.ExpectedCompletionDate)
	if expected != nil && expected.Before(startDate) {
		return nil, app_errors.NewFieldValidationError("expected_completion_date", "before_start_date", "validation.before_start_date")
	}

	caseID, idErr := s.newID()
	if idErr != nil {
		return nil, app_errors.NewInternalError(idErr)
	}
	c := &entity.CaseEntity{
		ID:                     caseID,
		Kind:                   in.Kind,
		SubjectID:              in.SubjectID,
		StartDate:              startDate,
		ExpectedCompletionDate: expected,
		Status:                 entity.CasePending,
		Notes:                  in.Notes,
		LastWorkingDate:        normTime(in.LastWorkingDate),
		Reason:                 in.Reason,
		Version:                1,
		CreatedBy:              actorID,
		CreatedAt:              now,
	}

	tasks := make([]entity.TaskEntity, 0, len(in.Template))
	for i, tmpl := range in.Template {
		taskID, idErr := s.newID()
		if idErr != nil {
			return nil, app_errors.NewInternalError(idErr)
		}
		tasks = append(tasks, entity.TaskEntity{
			ID:          taskID,
			CaseID:      c.ID,
			Label:       tmpl.Label,
			Description: tmpl.Description,
			DueDate:     dueDateFor(&tmpl, startDate),
			Status:      entity.TaskPending,
			AssigneeID:  tmpl.AssigneeID,
			Position:    i,
			CreatedAt:   now,
		})
	}

	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		if s.cfg.EnforceSingleOpenCase {
			if err := s.repo.LockSubject(ctx, t, c.SubjectID, c.Kind); err != nil {
				return err
			}
			open, err := s.repo.HasOpenCase(ctx, t, c.SubjectID, c.Kind)
			if err != nil {
				return err
			}
			if open {
				return app_errors.NewFieldValidationError("subject_id", "open_case_exists", "validation.open_case_exists")
			}
		}

		if err := s.repo.InsertCase(ctx, t, c); err != nil {
			return err
		}
		return s.repo.InsertTasks(ctx, t, tasks)
	})
	if txErr != nil {
		return nil, txErr
	}

	c.Tasks = tasks
	log.Info().Str("case_id", c.ID).Str("kind", string(c.Kind)).Int("tasks", len(tasks)).Msg("Lifecycle-Case angelegt")

	s.audit(ctx, actorID, authz.ActionCaseCreate, entity.ResourceCase, c.ID, nil, c)
	s.emit(ctx, actorID, entity.EventCreated, c, nil)

	return c, nil
}

func dueDateFor(tmpl *entity.TaskTemplate, start time.Time) *time.Time {
	if tmpl.DueDate != nil {
		return normTime(tmpl.DueDate)
	}
	if tmpl.DueInDays != nil {
		due := start.AddDate(0, 0, *tmpl.DueInDays)
		return &due
	}
	return nil
}

func (s *LifecycleService) BulkInitialize(ctx context.Context, actorID string, req *lifecycle_dto.BulkStartCaseRequest) (*lifecycle_dto.BulkStartCaseResponse, *app_errors.AppError) {
	if len(req.SubjectIDs) == 0 {
		return nil, app_errors.NewFieldValidationError("subject_ids", "required", "validation.required")
	}
	if s.cfg.BulkLimit > 0 && len(req.SubjectIDs) > s.cfg.BulkLimit {
		return nil, app_errors.NewValidationError([]app_errors.FieldError{{
			Field:      "subject_ids",
			Reason:     "max",
			MessageKey: "validation.max",
			Params:     map[string]any{"max": s.cfg.BulkLimit},
		}})
	}

	kind := entity.CaseKind(req.Kind)
	var template []entity.TaskTemplate
	if req.Template != nil {
		template = templatesFromRequest(*req.Template)
	} else {
		template = s.defaultTemplate(kind)
	}

	resp := &lifecycle_dto.BulkStartCaseResponse{
		Succeeded: []lifecycle_dto.CaseListItem{},
		Failed:    []lifecycle_dto.BulkFailure{},
	}
	for _, subjectID := range req.SubjectIDs {
		c, err := s.start(ctx, actorID, &startInput{
			Kind:                   kind,
			SubjectID:              subjectID,
			StartDate:              req.StartDate,
			ExpectedCompletionDate: req.ExpectedCompletionDate,
			Notes:                  req.Notes,
			Template:               template,
		})
		if err != nil {
			failure := lifecycle_dto.BulkFailure{
				SubjectID:  subjectID,
				Code:       err.Code,
				Type:       err.Type,
				MessageKey: err.MessageKey,
			}
			if len(err.Details) > 0 {
				failure.Reason = err.Details[0].Reason
			}
			resp.Failed = append(resp.Failed, failure)
			continue
		}
		resp.Succeeded = append(resp.Succeeded, lifecycle_dto.ToCaseListItem(c))
	}

	log.Info().Int("succeeded", len(resp.Succeeded)).Int("failed", len(resp.Failed)).Msg("Bulk-Initialisierung abgeschlossen")
	return resp, nil
}

func (s *LifecycleService) UpdateCase(ctx context.Context, actorID, caseID string, req *lifecycle_dto.UpdateCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	if details := req.CasePatch.Validate(); len(details) > 0 {
		return nil, app_errors.NewValidationError(details)
	}

	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseUpdate, caseResource(current)); err != nil {
		return nil, err
	}
	if req.Status.Set && req.Status.Value != nil {
		switch entity.CaseStatus(*req.Status.Value) {
		case entity.CaseCompleted:
			err = s.authorize(ctx, actorID, authz.ActionCaseComplete, caseResource(current))
		case entity.CaseCancelled:
			err = s.authorize(ctx, actorID, authz.ActionCaseCancel, caseResource(current))
		}
		if err != nil {
			return nil, err
		}
	}

	var before entity.CaseEntity
	var c *entity.CaseEntity
	var plan *taskPlan
	var fieldsChanged, completed bool
	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		locked, err := s.repo.GetCaseForUpdate(ctx, t, caseID)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != locked.Version {
			return versionMismatch(locked.Version)
		}
		before = *locked

		now := s.clock()
		fieldsChanged, completed, err = applyCasePatch(locked, &req.CasePatch, now)
		if err != nil {
			return err
		}
		if fieldsChanged && before.Status == entity.CaseCancelled {
			return app_errors.NewInvalidStateError("invalid_state.case_closed", string(before.Status))
		}

		if req.Tasks != nil {
			if before.Status.IsTerminal() {
				return app_errors.NewInvalidStateError("invalid_state.case_closed", string(before.Status))
			}
			existing, err := s.repo.ListTasksByCase(ctx, t, caseID)
			if err != nil {
				return err
			}
			plan, err = planTaskReconciliation(caseID, existing, *req.Tasks, now, s.newID)
			if err != nil {
				return err
			}
			if err := s.applyPlan(ctx, t, caseID, plan); err != nil {
				return err
			}
		}

		tasksChanged := plan != nil && !plan.empty()
		switch {
		case fieldsChanged:
			locked.UpdatedAt = &now
			version, err := s.repo.UpdateCase(ctx, t, locked)
			if err != nil {
				return err
			}
			locked.Version = version
		case tasksChanged:
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

	if fieldsChanged || (plan != nil && !plan.empty()) {
		s.invalidate(ctx, caseID)
	}
	if fieldsChanged {
		s.audit(ctx, actorID, authz.ActionCaseUpdate, entity.ResourceCase, caseID, &before, c)
	}
	if plan != nil {
		s.publishPlan(ctx, actorID, c, plan)
	}
	if completed {
		s.emit(ctx, actorID, entity.EventCaseCompleted, c, nil)
	}

	resp := lifecycle_dto.ToCaseResponse(c)
	return &resp, nil
}

// applyCasePatch schreibt die gesendeten Felder in c. Gemeldet werden
// Änderungen und ob der Case dabei abgeschlossen wurde.
func applyCasePatch(c *entity.CaseEntity, p *lifecycle_dto.CasePatch, now time.Time) (bool, bool, *app_errors.AppError) {
	if c.Kind == entity.CaseOnboarding {
		var details []app_errors.FieldError
		if p.LastWorkingDate.Set && p.LastWorkingDate.Value != nil {
			details = append(details, app_errors.FieldError{Field: "last_working_date", Reason: "offboarding_only", MessageKey: "validation.offboarding_only"})
		}
		if p.Reason.Set && p.Reason.Value != nil {
			details = append(details, app_errors.FieldError{Field: "reason", Reason: "offboarding_only", MessageKey: "validation.offboarding_only"})
		}
		if len(details) > 0 {
			return false, false, app_errors.NewValidationError(details)
		}
	}

	changed := false
	completed := false

	if p.Status.Set && p.Status.Value != nil {
		next := entity.CaseStatus(*p.Status.Value)
		if next != c.Status {
			if !c.Status.CanTransitionTo(next) {
				return false, false, app_errors.NewInvalidStateError("invalid_state.case_transition", string(c.Status))
			}
			c.Status = next
			changed = true
			completed = next == entity.CaseCompleted
		}
	}

	if p.StartDate.Set && p.StartDate.Value != nil {
		start := *normTime(p.StartDate.Value)
		if !start.Equal(c.StartDate) {
			c.StartDate = start
			changed = true
		}
	}
	changed = normalized(p.ExpectedCompletionDate).Apply(&c.ExpectedCompletionDate, timeEqual) || changed
	changed = normalized(p.ActualCompletionDate).Apply(&c.ActualCompletionDate, timeEqual) || changed
	changed = normalized(p.LastWorkingDate).Apply(&c.LastWorkingDate, timeEqual) || changed
	changed = p.Notes.Apply(&c.Notes, stringEqual) || changed
	changed = p.Reason.Apply(&c.Reason, stringEqual) || changed

	// ein abgeschlossener Case braucht ein Abschlussdatum
	if c.Status == entity.CaseCompleted && p.ActualCompletionDate.Set && p.ActualCompletionDate.Value == nil {
		return false, false, app_errors.NewFieldValidationError("actual_completion_date", "required", "validation.required")
	}
	if completed && c.ActualCompletionDate == nil {
		stamp := now
		c.ActualCompletionDate = &stamp
	}

	if c.ExpectedCompletionDate != nil && c.ExpectedCompletionDate.Before(c.StartDate) {
		return false, false, app_errors.NewFieldValidationError("expected_completion_date", "before_start_date", "validation.before_start_date")
	}

	return changed, completed, nil
}

func normalized(o dtos.Optional[time.Time]) dtos.Optional[time.Time] {
	if o.Set && o.Value != nil {
		o.Value = normTime(o.Value)
	}
	return o
}

func (s *LifecycleService) CompleteCase(ctx context.Context, actorID, caseID string, req *lifecycle_dto.CompleteCaseRequest) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseComplete, caseResource(current)); err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if req != nil {
		completedAt = req.ActualCompletionDate
	}

	return s.transition(ctx, actorID, caseID, entity.CaseCompleted, authz.ActionCaseComplete, func(c *entity.CaseEntity, now time.Time) {
		if completedAt != nil {
			c.ActualCompletionDate = normTime(completedAt)
		} else {
			c.ActualCompletionDate = &now
		}
	})
}

func (s *LifecycleService) CancelCase(ctx context.Context, actorID, caseID string) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseCancel, caseResource(current)); err != nil {
		return nil, err
	}

	return s.transition(ctx, actorID, caseID, entity.CaseCancelled, authz.ActionCaseCancel, nil)
}

// transition bewegt den Case nach target. Ist er schon dort, passiert nichts.
func (s *LifecycleService) transition(ctx context.Context, actorID, caseID string, target entity.CaseStatus, action authz.Action, mutate func(c *entity.CaseEntity, now time.Time)) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	var before entity.CaseEntity
	var c *entity.CaseEntity
	changed := false
	txErr := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		locked, err := s.repo.GetCaseForUpdate(ctx, t, caseID)
		if err != nil {
			return err
		}
		before = *locked

		if locked.Status != target {
			if !locked.Status.CanTransitionTo(target) {
				return app_errors.NewInvalidStateError("invalid_state.case_transition", string(locked.Status))
			}

			now := s.clock()
			locked.Status = target
			locked.UpdatedAt = &now
			if mutate != nil {
				mutate(locked, now)
			}
			version, err := s.repo.UpdateCase(ctx, t, locked)
			if err != nil {
				return err
			}
			locked.Version = version
			changed = true
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

	if changed {
		s.invalidate(ctx, caseID)
		s.audit(ctx, actorID, action, entity.ResourceCase, caseID, &before, c)
		if target == entity.CaseCompleted {
			s.emit(ctx, actorID, entity.EventCaseCompleted, c, nil)
		}
	}

	resp := lifecycle_dto.ToCaseResponse(c)
	return &resp, nil
}

func (s *LifecycleService) DeleteCase(ctx context.Context, actorID, caseID string) *app_errors.AppError {
	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseDelete, caseResource(current)); err != nil {
		return err
	}

	if err := s.withTx(ctx, func(t tx.Tx) *app_errors.AppError {
		return s.repo.DeleteCase(ctx, t, caseID)
	}); err != nil {
		return err
	}

	log.Info().Str("case_id", caseID).Str("actor_id", actorID).Msg("Lifecycle-Case gelöscht")
	s.invalidate(ctx, caseID)
	s.audit(ctx, actorID, authz.ActionCaseDelete, entity.ResourceCase, caseID, current, nil)
	return nil
}

func (s *LifecycleService) GetCase(ctx context.Context, actorID, caseID string) (*lifecycle_dto.CaseResponse, *app_errors.AppError) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseRead, caseResource(c)); err != nil {
		return nil, err
	}

	resp := lifecycle_dto.ToCaseResponse(c)
	return &resp, nil
}

// loadCase liest den Case samt Tasks, zuerst aus dem Cache.
func (s *LifecycleService) loadCase(ctx context.Context, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	// Generation vor dem DB-Lesen holen, sonst überschreibt ein langsamer Leser neuere Daten.
	var gen int64
	_, cacheErr := s.cache.Get(ctx, caseGenKey(caseID), &gen)
	if cacheErr != nil {
		log.Warn().Err(cacheErr).Str("case_id", caseID).Msg("Cache-Lesefehler, lese aus DB")
		return s.readCase(ctx, caseID)
	}
	key := caseDataKey(caseID, gen)

	var cached entity.CaseEntity
	hit, cacheErr := s.cache.Get(ctx, key, &cached)
	if cacheErr != nil {
		log.Warn().Err(cacheErr).Str("key", key).Msg("Cache-Lesefehler, lese aus DB")
	}
	if hit {
		return &cached, nil
	}

	c, err := s.readCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, c, s.cfg.CacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache-Schreibfehler")
	}
	return c, nil
}

func (s *LifecycleService) readCase(ctx context.Context, caseID string) (*entity.CaseEntity, *app_errors.AppError) {
	c, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	c.Tasks, err = s.repo.ListTasksByCase(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *LifecycleService) ListCases(ctx context.Context, actorID string, filter lifecycle_dto.CaseListFilter) ([]lifecycle_dto.CaseListItem, *dtos.PaginationMeta, *app_errors.AppError) {
	res := authz.Resource{Type: entity.ResourceCase}
	if filter.SubjectID != nil {
		res.SubjectID = *filter.SubjectID
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseRead, res); err != nil {
		return nil, nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}

	f := entity.CaseFilter{
		SubjectID: filter.SubjectID,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if filter.Kind != nil {
		kind := entity.CaseKind(*filter.Kind)
		f.Kind = &kind
	}
	if filter.Status != nil {
		status := entity.CaseStatus(*filter.Status)
		f.Status = &status
	}

	cases, total, err := s.repo.ListCases(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	items := make([]lifecycle_dto.CaseListItem, 0, len(cases))
	for i := range cases {
		items = append(items, lifecycle_dto.ToCaseListItem(&cases[i]))
	}

	meta := &dtos.PaginationMeta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      int(total),
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}
	return items, meta, nil
}

func (s *LifecycleService) CaseHistory(ctx context.Context, actorID, caseID string, limit int) ([]lifecycle_dto.AuditEntryResponse, *app_errors.AppError) {
	current, err := s.repo.GetCaseByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, authz.ActionCaseRead, caseResource(current)); err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = defaultHistoryLimit
	}
	entries, err := s.auditRepo.ListByResource(ctx, caseID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]lifecycle_dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, lifecycle_dto.ToAuditEntryResponse(&entries[i]))
	}
	return out, nil
}
