package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	entryRepo "github.com/matheuskieling/sleep-tracker/database/repository/entry"
	userRepo "github.com/matheuskieling/sleep-tracker/database/repository/user"
	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/push"
	"github.com/matheuskieling/sleep-tracker/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReminderDispatcher runs one reminder job.
type ReminderDispatcher interface {
	Dispatch(ctx context.Context, form models.FormType) (*models.DispatchSummary, error)
}

// Options tunes a Dispatcher. Zero values fall back to defaults.
type Options struct {
	Location    *time.Location
	Concurrency int
	Now         func() time.Time
	Metrics     *Metrics
}

const defaultConcurrency = 16

// Dispatcher sends the daily form reminder to every opted-in user who has not
// submitted that form yet, clearing tokens the push provider rejects.
type Dispatcher struct {
	users   userRepo.UserRepository
	entries entryRepo.EntryRepository
	gateway push.Gateway
	logger  *zap.Logger

	loc         *time.Location
	concurrency int
	now         func() time.Time
	metrics     *Metrics
}

func NewDispatcher(
	users userRepo.UserRepository,
	entries entryRepo.EntryRepository,
	gateway push.Gateway,
	logger *zap.Logger,
	opts Options,
) (*Dispatcher, error) {
	if users == nil || entries == nil || gateway == nil {
		return nil, errors.New("reminder dispatcher initialization error: user repository, entry repository or push gateway is nil")
	}
	if opts.Location == nil {
		return nil, errors.New("reminder dispatcher initialization error: location is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	return &Dispatcher{
		users:       users,
		entries:     entries,
		gateway:     gateway,
		logger:      logger,
		loc:         opts.Location,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		metrics:     opts.Metrics,
	}, nil
}

// Metrics returns the counters this dispatcher reports into.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkippedNoToken
	outcomeSkippedSubmitted
	outcomeTokenCleared
	outcomeFailed
)

type tally struct {
	sent, noToken, submitted, cleared, failed atomic.Int64
}

func (t *tally) add(o outcome) {
	switch o {
	case outcomeSent:
		t.sent.Add(1)
	case outcomeSkippedNoToken:
		t.noToken.Add(1)
	case outcomeSkippedSubmitted:
		t.submitted.Add(1)
	case outcomeTokenCleared:
		t.cleared.Add(1)
	case outcomeFailed:
		t.failed.Add(1)
	}
}

// Dispatch runs the reminder job for form. Per-user failures are logged and
// counted but never fail the run; only a failed user listing or a cancelled
// context is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, form models.FormType) (*models.DispatchSummary, error) {
	tmpl, err := TemplateFor(form)
	if err != nil {
		return nil, err
	}

	wallStart := time.Now()
	startedAt := d.now()
	summary := &models.DispatchSummary{
		RunID:     uuid.NewString(),
		FormType:  form,
		Date:      utils.DateKey(startedAt, d.loc),
		StartedAt: startedAt,
	}
	log := d.logger.With(
		zap.String("runId", summary.RunID),
		zap.String("formType", string(form)),
		zap.String("date", summary.Date),
	)
	log.Info("Reminder dispatch started")

	users, err := d.users.ListNotifiable(ctx)
	if err != nil {
		d.metrics.RecordAborted()
		log.Error("Failed to list notifiable users", zap.Error(err))
		return nil, fmt.Errorf("list notifiable users: %w", err)
	}

	date := summary.Date
	var counts tally
	g := new(errgroup.Group)
	g.SetLimit(d.concurrency)
	for _, u := range users {
		if !u.NotificationsEnabled {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		summary.Candidates++
		u := u
		g.Go(func() error {
			counts.add(d.remind(ctx, log, tmpl, date, u))
			return nil
		})
	}
	_ = g.Wait()

	summary.Sent = int(counts.sent.Load())
	summary.SkippedNoToken = int(counts.noToken.Load())
	summary.SkippedSubmitted = int(counts.submitted.Load())
	summary.TokensCleared = int(counts.cleared.Load())
	summary.Failed = int(counts.failed.Load())
	summary.Duration = time.Since(wallStart)
	d.metrics.Record(summary)

	fields := []zap.Field{
		zap.Int("candidates", summary.Candidates),
		zap.Int("sent", summary.Sent),
		zap.Int("skippedNoToken", summary.SkippedNoToken),
		zap.Int("skippedSubmitted", summary.SkippedSubmitted),
		zap.Int("tokensCleared", summary.TokensCleared),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	}
	if err := ctx.Err(); err != nil {
		d.metrics.RunsFailed.Add(1)
		log.Warn("Reminder dispatch interrupted", append(fields, zap.Error(err))...)
		return summary, err
	}
	log.Info("Reminder dispatch finished", fields...)
	return summary, nil
}

// remind handles a single user. It never returns an error: every failure is
// reduced to an outcome.
func (d *Dispatcher) remind(
	ctx context.Context,
	log *zap.Logger,
	tmpl models.ReminderTemplate,
	date string,
	u models.UserProfile,
) (result outcome) {
	log = log.With(zap.String("userId", u.ID))
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered panic while sending reminder", zap.Any("panic", r))
			result = outcomeFailed
		}
	}()

	if !u.HasPushTarget() {
		return outcomeSkippedNoToken
	}

	entry, err := d.entries.GetEntry(ctx, u.ID, date)
	if err != nil {
		log.Warn("Failed to read daily entry", zap.Error(err))
		return outcomeFailed
	}
	if entry.Has(tmpl.FormType) {
		return outcomeSkippedSubmitted
	}

	err = d.gateway.Send(ctx, MessageFor(tmpl, u.FCMToken))
	if err == nil {
		log.Debug("Reminder sent")
		return outcomeSent
	}

	if push.IsTokenInvalid(err) {
		if clearErr := d.users.ClearFCMToken(ctx, u.ID); clearErr != nil {
			log.Error("Failed to clear invalid push token",
				zap.String("reason", push.ReasonOf(err)),
				zap.Error(clearErr),
			)
			return outcomeFailed
		}
		log.Info("Cleared invalid push token", zap.String("reason", push.ReasonOf(err)))
		return outcomeTokenCleared
	}

	log.Warn("Failed to send reminder",
		zap.String("kind", push.KindOf(err).String()),
		zap.String("reason", push.ReasonOf(err)),
		zap.Error(err),
	)
	return outcomeFailed
}
