package worker_handler

import (
	"context"

	"github.com/emamhosenCSE/aeos365-hrm/internal/mail"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func (wh *WorkerHandler) OverdueLifecycleTasks() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		now := wh.now().UTC()

		// Open tasks past due whose assignee was not reminded within the window
		tasks, err := wh.lr.ListOverdueTasks(ctx, now, now.Add(-overdueRemindWindow), overdueBatchSize)
		if err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when list overdue tasks")
			return err
		}
		if len(tasks) == 0 {
			return nil
		}

		reminded := make([]string, 0, len(tasks))
		for i := range tasks {
			task := &tasks[i]
			if err := wh.fanOut(func(n mail.Notifier) error {
				return n.NotifyOverdueTask(ctx, task)
			}); err != nil {
				continue
			}
			reminded = append(reminded, task.TaskID)
		}

		if err := wh.lr.MarkTasksReminded(ctx, reminded, now); err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when update tasks")
			return err
		}

		log.Info().Int("overdue", len(tasks)).Int("reminded", len(reminded)).Msg("Worker handler: overdue reminders sent.")
		return nil
	}
}
