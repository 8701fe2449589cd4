package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/cropclimate/internal/metrics"
)

func TestHealthMonitorRecordsTransitions(t *testing.T) {
	var failing atomic.Bool
	m := NewHealthMonitor(func(ctx context.Context) error {
		if failing.Load() {
			return errors.New("connection refused")
		}
		return nil
	}, time.Hour)

	_, ok := m.Status()
	require.False(t, ok)

	h := m.Check(context.Background())
	require.Equal(t, StatusHealthy, h.Status)
	require.Empty(t, h.Error)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.DatabaseUp))

	failing.Store(true)
	h = m.Check(context.Background())
	require.Equal(t, StatusUnhealthy, h.Status)
	require.Equal(t, "connection refused", h.Error)
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.DatabaseUp))

	got, ok := m.Status()
	require.True(t, ok)
	require.Equal(t, h, got)
}

func TestHealthMonitorStopsWithContext(t *testing.T) {
	var calls atomic.Int32
	m := NewHealthMonitor(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	m.Start(ctx, &wg)

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	_, ok := m.Status()
	require.True(t, ok)
}
