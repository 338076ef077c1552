package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck probes one dependency; nil means healthy.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Dependencies map[string]bool `json:"dependencies"`
	CheckedAt    time.Time       `json:"checkedAt"`
}

// Healthy reports whether every dependency passed its last probe.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Dependencies {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	deps := make(map[string]bool, len(currentHealth.Dependencies))
	for k, v := range currentHealth.Dependencies {
		deps[k] = v
	}
	return HealthStatus{Dependencies: deps, CheckedAt: currentHealth.CheckedAt}
}

// RunHealthChecks probes every dependency once and stores the snapshot.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthStatus {
	deps := make(map[string]bool, len(checks))
	for name, check := range checks {
		probeCtx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
		err := check(probeCtx)
		cancel()
		if err != nil {
			GetLogger().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
		deps[name] = err == nil
	}

	status := HealthStatus{Dependencies: deps, CheckedAt: time.Now()}
	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state
// until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, checks map[string]HealthCheck) {
	RunHealthChecks(ctx, checks)
	go func() {
		ticker := time.NewTicker(HealthCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunHealthChecks(ctx, checks)
			}
		}
	}()
}
