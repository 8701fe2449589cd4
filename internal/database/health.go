package database

import (
	"context"
	"sync"
	"time"

	"github.com/chrissnell/cropclimate/internal/log"
	"github.com/chrissnell/cropclimate/internal/metrics"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	// DefaultHealthInterval is how often the monitor pings the database
	DefaultHealthInterval = time.Minute
	healthCheckTimeout    = 5 * time.Second
)

// Health is the outcome of the most recent database check
type Health struct {
	LastCheck time.Time `json:"last_check"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}

// HealthMonitor periodically checks the database and keeps the last result
// in memory. It also drives the database_up gauge.
type HealthMonitor struct {
	mu       sync.RWMutex
	health   *Health
	check    func(ctx context.Context) error
	interval time.Duration
}

// NewHealthMonitor creates a monitor around check, usually a pool ping
func NewHealthMonitor(check func(ctx context.Context) error, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	return &HealthMonitor{
		check:    check,
		interval: interval,
	}
}

// Start runs an initial check immediately and then one per interval until ctx
// is cancelled.
func (m *HealthMonitor) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		m.Check(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Check(ctx)
			case <-ctx.Done():
				log.Info("stopping database health monitor")
				return
			}
		}
	}()
}

// Check performs one health check and records it
func (m *HealthMonitor) Check(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	health := Health{
		LastCheck: time.Now(),
		Status:    StatusHealthy,
		Message:   "PostgreSQL connection active",
	}
	if err := m.check(ctx); err != nil {
		health.Status = StatusUnhealthy
		health.Message = "Database ping failed"
		health.Error = err.Error()
	}

	m.mu.Lock()
	previous := m.health
	m.health = &health
	m.mu.Unlock()

	if health.Status == StatusHealthy {
		metrics.DatabaseUp.Set(1)
	} else {
		metrics.DatabaseUp.Set(0)
	}

	// only transitions are worth a log line
	if previous == nil || previous.Status != health.Status {
		if health.Status == StatusHealthy {
			log.Infof("database health status: %s", health.Status)
		} else {
			log.Warnw("database health status changed", "status", health.Status, "error", health.Error)
		}
	}

	return health
}

// Status returns the last recorded health, or false if no check has run yet
func (m *HealthMonitor) Status() (Health, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.health == nil {
		return Health{}, false
	}
	return *m.health, true
}
