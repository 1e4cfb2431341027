package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
)

// LifecycleMessage ist ein aufgelöstes Lifecycle-Ereignis, bereit zum Versand.
type LifecycleMessage struct {
	Event        entity.LifecycleEvent
	CaseID       string
	Kind         entity.CaseKind
	SubjectName  string
	SubjectEmail string
	TaskLabel    string
	OccurredAt   time.Time
}

// Notifier ist ein Zustellkanal. Zustellung ist best effort.
type Notifier interface {
	Name() string
	NotifyLifecycleEvent(ctx context.Context, msg *LifecycleMessage) error
	NotifyOverdueTask(ctx context.Context, task *entity.OverdueTask) error
}

func kindTitle(k entity.CaseKind) string {
	if k == entity.CaseOffboarding {
		return "Offboarding"
	}
	return "Onboarding"
}

// Subject liefert die Betreffzeile des Ereignisses.
func (m *LifecycleMessage) Subject() string {
	switch m.Event {
	case entity.EventCreated:
		return fmt.Sprintf("%s started for %s", kindTitle(m.Kind), m.SubjectName)
	case entity.EventTaskCompleted:
		return fmt.Sprintf("%s task completed: %s", kindTitle(m.Kind), m.TaskLabel)
	case entity.EventCaseCompleted:
		return fmt.Sprintf("%s completed for %s", kindTitle(m.Kind), m.SubjectName)
	}
	return fmt.Sprintf("%s update for %s", kindTitle(m.Kind), m.SubjectName)
}

// Text liefert den Nachrichtentext für alle Kanäle.
func (m *LifecycleMessage) Text() string {
	var b strings.Builder
	b.WriteString(m.Subject())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Case\t: %s\n", m.CaseID)
	fmt.Fprintf(&b, "Employee: %s\n", m.SubjectName)
	if m.TaskLabel != "" {
		fmt.Fprintf(&b, "Task\t: %s\n", m.TaskLabel)
	}
	fmt.Fprintf(&b, "At\t: %s\n", m.OccurredAt.Format("02 Jan 2006 15:04 MST"))
	b.WriteString("\naeos365 HRM")
	return b.String()
}

func overdueText(task *entity.OverdueTask) string {
	return fmt.Sprintf(
		"Hi %s,\n\nthe %s task \"%s\" was due on %s and is still open.\n"+
			"Please complete it or update its status.\n\nCase: %s\n\naeos365 HRM",
		task.AssigneeName,
		strings.ToLower(kindTitle(task.Kind)),
		task.Label,
		task.DueDate.Format("02 Jan 2006"),
		task.CaseID,
	)
}
