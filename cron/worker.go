package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/reminder"
	"github.com/matheuskieling/sleep-tracker/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker consumes reminder dispatch tasks from the asynq queue.
type ReminderWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewReminderWorker(redisOpt asynq.RedisConnOpt, concurrency int, dispatcher reminder.ReminderDispatcher, logger *zap.Logger) *ReminderWorker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.ReminderQueue: 1,
			},
			RetryDelayFunc: func(n int, err error, t *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderDispatch, HandleDispatchTask(dispatcher, logger))

	return &ReminderWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup a few times.
func (w *ReminderWorker) Start() error {
	const maxAttempts = 5

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.srv.Start(w.mux); err == nil {
			w.logger.Info("Reminder worker started")
			return nil
		}
		w.logger.Warn("Failed to start reminder worker",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err),
		)
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}
	return fmt.Errorf("reminder worker did not start after %d attempts: %w", maxAttempts, err)
}

func (w *ReminderWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("Reminder worker stopped")
}

// HandleDispatchTask runs the dispatcher for the task's form slot. Malformed
// payloads are not retried; job-level dispatch failures are returned so
// asynq applies the task's retry budget.
func HandleDispatchTask(dispatcher reminder.ReminderDispatcher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseDispatchPayload(task)
		if err != nil {
			logger.Error("Dropping reminder task with invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		fields := []zap.Field{zap.String("job", p.Job), zap.String("formType", string(p.FormType))}
		if id, ok := asynq.GetTaskID(ctx); ok {
			fields = append(fields, zap.String("taskId", id))
		}
		if n, ok := asynq.GetRetryCount(ctx); ok && n > 0 {
			fields = append(fields, zap.Int("retry", n))
		}
		logger.Info("Running reminder job", fields...)

		if _, err := dispatcher.Dispatch(ctx, p.FormType); err != nil {
			if errors.Is(err, models.ErrUnknownFormType) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			logger.Error("Reminder job failed", append(fields, zap.Error(err))...)
			return err
		}
		return nil
	}
}
