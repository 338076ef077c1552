package cron

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lockRepo "github.com/matheuskieling/sleep-tracker/database/repository/lock"
	"github.com/matheuskieling/sleep-tracker/services/reminder"
	"github.com/matheuskieling/sleep-tracker/utils"

	"github.com/google/uuid"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// firingLockHold keeps a firing's lock after the run so replicas whose clock
// fires late still find it taken.
const firingLockHold = time.Hour

// LocalScheduler fires reminder jobs in-process. Every replica runs the same
// schedule; a Redis lock keyed by job and day lets only one of them dispatch
// each firing.
type LocalScheduler struct {
	cron       *robfig.Cron
	dispatcher reminder.ReminderDispatcher
	locker     lockRepo.JobLocker
	jobs       []Job
	timeout    time.Duration
	retryDelay time.Duration
	instanceID string
	now        func() time.Time
	logger     *zap.Logger
}

func NewLocalScheduler(
	dispatcher reminder.ReminderDispatcher,
	locker lockRepo.JobLocker,
	loc *time.Location,
	jobs []Job,
	timeout time.Duration,
	logger *zap.Logger,
) (*LocalScheduler, error) {
	if dispatcher == nil || locker == nil {
		return nil, errors.New("local scheduler initialization error: dispatcher or locker is nil")
	}
	instanceID := os.Getenv("HOSTNAME")
	if instanceID == "" {
		instanceID = "instance-" + uuid.NewString()
	}
	return &LocalScheduler{
		cron:       robfig.New(robfig.WithLocation(loc)),
		dispatcher: dispatcher,
		locker:     locker,
		jobs:       jobs,
		timeout:    timeout,
		retryDelay: 30 * time.Second,
		instanceID: instanceID,
		now:        time.Now,
		logger:     logger.With(zap.String("instance", instanceID)),
	}, nil
}

// Start registers every job and begins firing.
func (s *LocalScheduler) Start() error {
	for _, job := range s.jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Schedule, func() { s.runJob(context.Background(), job) }); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name, err)
		}
		s.logger.Info("Registered reminder job",
			zap.String("job", job.Name),
			zap.String("schedule", job.Schedule),
			zap.String("timezone", s.cron.Location().String()),
		)
	}
	s.cron.Start()
	s.logger.Info("Local reminder scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *LocalScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Local reminder scheduler stopped")
}

// lockTTL covers every attempt of one firing plus firingLockHold.
func (s *LocalScheduler) lockTTL(job Job) time.Duration {
	attempts := time.Duration(job.RetryCount + 1)
	return attempts*s.timeout + time.Duration(job.RetryCount)*s.retryDelay + firingLockHold
}

// lockName identifies one firing: the job on the current operating day.
func (s *LocalScheduler) lockName(job Job) string {
	return job.Name + ":" + utils.DateKey(s.now(), s.cron.Location())
}

// runJob dispatches job once, retrying up to job.RetryCount times on a
// job-level failure. It reports whether some attempt succeeded. The lock is
// never released; it expires after lockTTL.
func (s *LocalScheduler) runJob(ctx context.Context, job Job) bool {
	lock := s.lockName(job)
	log := s.logger.With(zap.String("job", job.Name), zap.String("formType", string(job.FormType)), zap.String("lock", lock))

	acquired, err := s.locker.TryAcquireLock(ctx, lock, s.instanceID, s.lockTTL(job))
	if err != nil {
		log.Error("Failed to acquire job lock", zap.Error(err))
		return false
	}
	if !acquired {
		log.Debug("Reminder job already taken by another instance, skipping")
		return false
	}

	for attempt := 0; attempt <= job.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(s.retryDelay):
			}
			log.Info("Retrying reminder job", zap.Int("retry", attempt))
		}

		runCtx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err := s.dispatcher.Dispatch(runCtx, job.FormType)
		cancel()
		if err == nil {
			return true
		}
		log.Error("Reminder job failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return false
}
