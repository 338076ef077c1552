package cron

import (
	"fmt"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderScheduler enqueues one dispatch task per job at its scheduled time.
type ReminderScheduler struct {
	scheduler *asynq.Scheduler
	entries   map[string]string
	logger    *zap.Logger
}

func NewReminderScheduler(redisOpt asynq.RedisConnOpt, loc *time.Location, jobs []Job, timeout time.Duration, logger *zap.Logger) (*ReminderScheduler, error) {
	s := &ReminderScheduler{
		scheduler: asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
			Location: loc,
			PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
				if err != nil {
					logger.Warn("Failed to enqueue reminder task", zap.Error(err))
					return
				}
				logger.Info("Enqueued reminder task", zap.String("taskId", info.ID), zap.String("queue", info.Queue))
			},
		}),
		entries: make(map[string]string, len(jobs)),
		logger:  logger,
	}

	for _, job := range jobs {
		task, opts, err := tasks.NewDispatchTask(
			models.ReminderPayload{FormType: job.FormType, Job: job.Name},
			tasks.DispatchTaskOptions{MaxRetry: job.RetryCount, Timeout: timeout, UniqueTTL: timeout},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build task for %s: %w", job.Name, err)
		}
		entryID, err := s.scheduler.Register(job.Schedule, task, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", job.Name, err)
		}
		s.entries[job.Name] = entryID
		logger.Info("Registered reminder job",
			zap.String("job", job.Name),
			zap.String("schedule", job.Schedule),
			zap.String("timezone", loc.String()),
			zap.Int("retryCount", job.RetryCount),
		)
	}
	return s, nil
}

// EntryIDs returns the scheduler entry id of each registered job.
func (s *ReminderScheduler) EntryIDs() map[string]string {
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *ReminderScheduler) Start() error {
	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}
	s.logger.Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) Shutdown() {
	s.scheduler.Shutdown()
	s.logger.Info("Reminder scheduler stopped")
}
