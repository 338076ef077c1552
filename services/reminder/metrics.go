package reminder

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
)

// Metrics accumulates dispatch outcomes across runs.
type Metrics struct {
	Runs             atomic.Int64
	RunsFailed       atomic.Int64
	Sent             atomic.Int64
	TokensCleared    atomic.Int64
	Failed           atomic.Int64
	SkippedSubmitted atomic.Int64
	SkippedNoToken   atomic.Int64
	StartTime        time.Time

	mu      sync.RWMutex
	lastRun map[models.FormType]models.DispatchSummary
}

func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
		lastRun:   make(map[models.FormType]models.DispatchSummary),
	}
}

// Record adds a finished run to the totals.
func (m *Metrics) Record(s *models.DispatchSummary) {
	m.Runs.Add(1)
	m.Sent.Add(int64(s.Sent))
	m.TokensCleared.Add(int64(s.TokensCleared))
	m.Failed.Add(int64(s.Failed))
	m.SkippedSubmitted.Add(int64(s.SkippedSubmitted))
	m.SkippedNoToken.Add(int64(s.SkippedNoToken))

	m.mu.Lock()
	m.lastRun[s.FormType] = *s
	m.mu.Unlock()
}

// RecordAborted counts a run that ended before any user was processed.
func (m *Metrics) RecordAborted() {
	m.Runs.Add(1)
	m.RunsFailed.Add(1)
}

// MetricsSnapshot is the JSON view served on the health endpoint.
type MetricsSnapshot struct {
	Uptime           string                                     `json:"uptime"`
	Runs             int64                                      `json:"runs"`
	RunsFailed       int64                                      `json:"runsFailed"`
	Sent             int64                                      `json:"sent"`
	TokensCleared    int64                                      `json:"tokensCleared"`
	Failed           int64                                      `json:"failed"`
	SkippedSubmitted int64                                      `json:"skippedSubmitted"`
	SkippedNoToken   int64                                      `json:"skippedNoToken"`
	LastRuns         map[models.FormType]models.DispatchSummary `json:"lastRuns"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	last := make(map[models.FormType]models.DispatchSummary, len(m.lastRun))
	for k, v := range m.lastRun {
		last[k] = v
	}
	m.mu.RUnlock()

	return MetricsSnapshot{
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
		Runs:             m.Runs.Load(),
		RunsFailed:       m.RunsFailed.Load(),
		Sent:             m.Sent.Load(),
		TokensCleared:    m.TokensCleared.Load(),
		Failed:           m.Failed.Load(),
		SkippedSubmitted: m.SkippedSubmitted.Load(),
		SkippedNoToken:   m.SkippedNoToken.Load(),
		LastRuns:         last,
	}
}
