package worker_handler

import (
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/mail"
	audit_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/audit-repo"
	employee_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/employee-repo"
	lifecycle_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/lifecycle-repo"
)

const (
	overdueBatchSize    = 500
	overdueRemindWindow = 24 * time.Hour
)

type WorkerHandler struct {
	lr        lifecycle_repo.LifecycleRepoContract
	er        employee_repo.EmployeeRepoContract
	ar        audit_repo.AuditRepoContract
	notifiers []mail.Notifier
	now       func() time.Time
}

func NewWorkerHandler(
	lr lifecycle_repo.LifecycleRepoContract,
	er employee_repo.EmployeeRepoContract,
	ar audit_repo.AuditRepoContract,
	notifiers ...mail.Notifier,
) *WorkerHandler {
	return &WorkerHandler{
		lr:        lr,
		er:        er,
		ar:        ar,
		notifiers: notifiers,
		now:       time.Now,
	}
}
