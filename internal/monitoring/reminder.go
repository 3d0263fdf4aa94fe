// Package monitoring runs the background deadline-reminder job.
package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

// reminderWindow is how far ahead of a deadline a reminder fires.
const reminderWindow = 24 * time.Hour

// Reminder periodically scans for tasks approaching their deadline and emits
// a warning event for each, once per task.
type Reminder struct {
	tasks    repository.TaskRepository
	eventSvc services.EventServiceProvider
	interval time.Duration
	cron     *cron.Cron
}

// NewReminder creates a Reminder scanning at the given interval.
func NewReminder(tasks repository.TaskRepository, eventSvc services.EventServiceProvider, interval time.Duration) *Reminder {
	return &Reminder{tasks: tasks, eventSvc: eventSvc, interval: interval}
}

// Start schedules the scan and runs one immediately.
func (r *Reminder) Start() error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		r.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	r.cron.Start()
	log.Info().Dur("interval", r.interval).Msg("Deadline reminder started")
	r.RunOnce(context.Background())
	return nil
}

// Stop halts the scheduled scans.
func (r *Reminder) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// RunOnce performs a single scan for tasks due within the reminder window.
func (r *Reminder) RunOnce(ctx context.Context) {
	due, err := r.tasks.ListDueSoon(ctx, reminderWindow)
	if err != nil {
		log.Error().Err(err).Msg("Reminder scan failed")
		return
	}

	for _, task := range due {
		message := fmt.Sprintf("Task %q is due %s", task.Title, task.Deadline.Format(time.RFC3339))
		if err := r.eventSvc.Record(ctx, "task.deadline.soon", "warn", message, task.OwnerID, &task.ID); err != nil {
			log.Warn().Err(err).Str("task_id", task.ID).Msg("Failed to record reminder event")
			continue
		}
		if err := r.tasks.MarkReminded(ctx, task.ID); err != nil {
			log.Warn().Err(err).Str("task_id", task.ID).Msg("Failed to mark task reminded")
		}
	}
}
