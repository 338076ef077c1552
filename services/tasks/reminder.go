package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/matheuskieling/sleep-tracker/models"
)

const (
	TypeReminderDispatch = "reminder:dispatch"
	ReminderQueue        = "reminders"
)

// DispatchTaskOptions controls delivery of a reminder dispatch task.
type DispatchTaskOptions struct {
	MaxRetry int
	Timeout  time.Duration
	// UniqueTTL dedupes identical tasks enqueued by several scheduler replicas.
	UniqueTTL time.Duration
}

// NewDispatchTask builds the task that runs one reminder job.
func NewDispatchTask(payload models.ReminderPayload, o DispatchTaskOptions) (*asynq.Task, []asynq.Option, error) {
	if !payload.FormType.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", models.ErrUnknownFormType, payload.FormType)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderDispatch, b)

	opts := []asynq.Option{
		asynq.Queue(ReminderQueue),
		asynq.MaxRetry(o.MaxRetry),
	}
	if o.Timeout > 0 {
		opts = append(opts, asynq.Timeout(o.Timeout))
	}
	if o.UniqueTTL > 0 {
		opts = append(opts, asynq.Unique(o.UniqueTTL))
	}
	return task, opts, nil
}

// ParseDispatchPayload decodes and validates a reminder dispatch task.
func ParseDispatchPayload(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	if !p.FormType.Valid() {
		return p, fmt.Errorf("%w: %q", models.ErrUnknownFormType, p.FormType)
	}
	return p, nil
}
