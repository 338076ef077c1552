package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/services/tasks"

	"github.com/hibiken/asynq"
	robfig "github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "time/tzdata"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, form models.FormType) (*models.DispatchSummary, error) {
	args := m.Called(ctx, form)
	s, _ := args.Get(0).(*models.DispatchSummary)
	return s, args.Error(1)
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (l *fakeLocker) TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.held[name]; ok {
		return false, nil
	}
	l.held[name] = owner
	l.ttls[name] = ttl
	return true, nil
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestJobs(t *testing.T) {
	jobs := Jobs(1)
	require.Len(t, jobs, 3)

	want := []Job{
		{Name: "morningNotification", FormType: models.FormMorning, Schedule: "0 8 * * *", RetryCount: 1},
		{Name: "noonNotification", FormType: models.FormNoon, Schedule: "0 12 * * *", RetryCount: 1},
		{Name: "eveningNotification", FormType: models.FormEvening, Schedule: "0 20 * * *", RetryCount: 1},
	}
	assert.Equal(t, want, jobs)
}

func TestJobSchedulesFireInOperatingTimezone(t *testing.T) {
	loc := saoPaulo(t)
	parser := robfig.NewParser(robfig.Minute | robfig.Hour | robfig.Dom | robfig.Month | robfig.Dow)
	from := time.Date(2024, 3, 15, 0, 30, 0, 0, loc)

	hours := map[string]int{"morningNotification": 8, "noonNotification": 12, "eveningNotification": 20}
	for _, job := range Jobs(1) {
		sched, err := parser.Parse(job.Schedule)
		require.NoError(t, err, job.Name)
		next := sched.Next(from)
		assert.Equal(t, hours[job.Name], next.Hour(), job.Name)
		assert.Equal(t, 0, next.Minute(), job.Name)
		assert.Equal(t, 15, next.Day(), job.Name)
	}
}

func TestHandleDispatchTask(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormNoon).Return(&models.DispatchSummary{Sent: 2}, nil).Once()

	task, _, err := tasks.NewDispatchTask(models.ReminderPayload{FormType: models.FormNoon, Job: "noonNotification"}, tasks.DispatchTaskOptions{})
	require.NoError(t, err)

	require.NoError(t, HandleDispatchTask(d, zap.NewNop())(context.Background(), task))
	d.AssertExpectations(t)
}

func TestHandleDispatchTaskBadPayloadSkipsRetry(t *testing.T) {
	d := new(mockDispatcher)
	err := HandleDispatchTask(d, zap.NewNop())(context.Background(), asynq.NewTask(tasks.TypeReminderDispatch, []byte(`{"formType":"lunch"}`)))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandleDispatchTaskJobFailureIsRetried(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormMorning).Return(nil, errors.New("list notifiable users: unavailable"))

	task, _, err := tasks.NewDispatchTask(models.ReminderPayload{FormType: models.FormMorning}, tasks.DispatchTaskOptions{})
	require.NoError(t, err)

	err = HandleDispatchTask(d, zap.NewNop())(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestNewReminderSchedulerRegistersJobs(t *testing.T) {
	s, err := NewReminderScheduler(asynq.RedisClientOpt{Addr: "localhost:6379"}, saoPaulo(t), Jobs(1), 9*time.Minute, zap.NewNop())
	require.NoError(t, err)

	ids := s.EntryIDs()
	assert.Len(t, ids, 3)
	for _, job := range Jobs(1) {
		assert.NotEmpty(t, ids[job.Name])
	}
}

func TestNewReminderSchedulerRejectsBadSpec(t *testing.T) {
	jobs := []Job{{Name: "broken", FormType: models.FormMorning, Schedule: "every morning"}}
	_, err := NewReminderScheduler(asynq.RedisClientOpt{Addr: "localhost:6379"}, saoPaulo(t), jobs, time.Minute, zap.NewNop())
	assert.Error(t, err)
}

func newTestLocalScheduler(t *testing.T, d *mockDispatcher, l *fakeLocker) *LocalScheduler {
	t.Helper()
	s, err := NewLocalScheduler(d, l, saoPaulo(t), Jobs(1), time.Second, zap.NewNop())
	require.NoError(t, err)
	s.retryDelay = time.Millisecond
	// 08:00 in São Paulo.
	s.now = func() time.Time { return time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC) }
	return s
}

func TestLocalSchedulerRunJobSucceeds(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormMorning).Return(&models.DispatchSummary{}, nil).Once()
	l := newFakeLocker()
	s := newTestLocalScheduler(t, d, l)

	assert.True(t, s.runJob(context.Background(), Jobs(1)[0]))
	d.AssertExpectations(t)
	assert.Contains(t, l.held, "morningNotification:2024-03-15", "the lock outlives the run")
	assert.Equal(t, s.lockTTL(Jobs(1)[0]), l.ttls["morningNotification:2024-03-15"])
}

func TestLocalSchedulerLateReplicaDoesNotDispatchAgain(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormMorning).Return(&models.DispatchSummary{}, nil).Once()
	l := newFakeLocker()
	first := newTestLocalScheduler(t, d, l)
	first.instanceID = "replica-a"
	late := newTestLocalScheduler(t, d, l)
	late.instanceID = "replica-b"
	late.now = func() time.Time { return time.Date(2024, 3, 15, 11, 0, 40, 0, time.UTC) }

	assert.True(t, first.runJob(context.Background(), Jobs(1)[0]))
	assert.False(t, late.runJob(context.Background(), Jobs(1)[0]))
	d.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestLocalSchedulerLockIsPerDay(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormMorning).Return(&models.DispatchSummary{}, nil).Twice()
	l := newFakeLocker()
	s := newTestLocalScheduler(t, d, l)

	assert.True(t, s.runJob(context.Background(), Jobs(1)[0]))
	s.now = func() time.Time { return time.Date(2024, 3, 16, 11, 0, 0, 0, time.UTC) }
	assert.True(t, s.runJob(context.Background(), Jobs(1)[0]))

	d.AssertExpectations(t)
	assert.Contains(t, l.held, "morningNotification:2024-03-16")
}

func TestLocalSchedulerRetriesOnce(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormEvening).Return(nil, errors.New("firestore down")).Once()
	d.On("Dispatch", mock.Anything, models.FormEvening).Return(&models.DispatchSummary{}, nil).Once()
	s := newTestLocalScheduler(t, d, newFakeLocker())

	assert.True(t, s.runJob(context.Background(), Jobs(1)[2]))
	d.AssertNumberOfCalls(t, "Dispatch", 2)
}

func TestLocalSchedulerGivesUpAfterRetryBudget(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, models.FormNoon).Return(nil, errors.New("firestore down"))
	s := newTestLocalScheduler(t, d, newFakeLocker())

	assert.False(t, s.runJob(context.Background(), Jobs(1)[1]))
	d.AssertNumberOfCalls(t, "Dispatch", 2)
}

func TestLocalSchedulerSkipsWhenLockHeld(t *testing.T) {
	d := new(mockDispatcher)
	l := newFakeLocker()
	l.held["morningNotification:2024-03-15"] = "other-instance"
	s := newTestLocalScheduler(t, d, l)

	assert.False(t, s.runJob(context.Background(), Jobs(1)[0]))
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	assert.Equal(t, "other-instance", l.held["morningNotification:2024-03-15"])
}

func TestLocalSchedulerLockError(t *testing.T) {
	d := new(mockDispatcher)
	l := newFakeLocker()
	l.err = errors.New("redis unreachable")
	s := newTestLocalScheduler(t, d, l)

	assert.False(t, s.runJob(context.Background(), Jobs(1)[0]))
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestLocalSchedulerLockTTLCoversRetries(t *testing.T) {
	s := newTestLocalScheduler(t, new(mockDispatcher), newFakeLocker())
	s.timeout = 9 * time.Minute
	s.retryDelay = 30 * time.Second

	assert.Equal(t, 18*time.Minute+30*time.Second+firingLockHold, s.lockTTL(Job{RetryCount: 1}))
	assert.Equal(t, 9*time.Minute+firingLockHold, s.lockTTL(Job{RetryCount: 0}))
}

func TestNewLocalSchedulerValidates(t *testing.T) {
	_, err := NewLocalScheduler(nil, newFakeLocker(), time.UTC, Jobs(1), time.Minute, zap.NewNop())
	assert.Error(t, err)
}
