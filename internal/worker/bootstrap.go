package worker

import (
	"fmt"

	worker_handler "github.com/emamhosenCSE/aeos365-hrm/internal/worker/handlers"
	worker_task "github.com/emamhosenCSE/aeos365-hrm/internal/worker/tasks"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func RegisterWorkerHandlers(mux *asynq.ServeMux, h *worker_handler.WorkerHandler) {
	mux.HandleFunc(worker_task.TaskLifecycleNotification, h.LifecycleNotification())
	mux.HandleFunc(worker_task.TaskLifecycleAudit, h.LifecycleAudit())
	mux.HandleFunc(worker_task.TaskOverdueLifecycleTasks, h.OverdueLifecycleTasks())
}

func RegisterCronJobs(s *asynq.Scheduler) error {
	jobs := []struct {
		spec  string
		task  *asynq.Task
		queue string
		desc  string
	}{
		{
			spec:  "0 */6 * * *",
			task:  asynq.NewTask(worker_task.TaskOverdueLifecycleTasks, nil),
			queue: worker_task.QueueLow,
			desc:  "send overdue lifecycle task reminder",
		},
	}

	for _, job := range jobs {
		if _, err := s.Register(job.spec, job.task, asynq.Queue(job.queue)); err != nil {
			return fmt.Errorf("register %s failed: %w", job.desc, err)
		}
		log.Info().Msgf("scheduled: %s", job.desc)
	}

	return nil
}
