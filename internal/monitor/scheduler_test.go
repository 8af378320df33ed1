package monitor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/monitor"
	"github.com/stretchr/testify/assert"
)

func TestTickerSchedulerRunsAndStops(t *testing.T) {
	s := monitor.NewTickerScheduler()
	var calls atomic.Int32

	s.Start(5*time.Millisecond, func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	s.Stop()
	time.Sleep(20 * time.Millisecond)
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestTickerSchedulerRestartReplacesSchedule(t *testing.T) {
	s := monitor.NewTickerScheduler()
	var first, second atomic.Int32

	s.Start(5*time.Millisecond, func() { first.Add(1) })
	s.Start(5*time.Millisecond, func() { second.Add(1) })
	defer s.Stop()

	assert.Eventually(t, func() bool { return second.Load() >= 2 }, time.Second, time.Millisecond)
	stale := first.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stale, first.Load())
}

func TestTickerSchedulerStopFromCallback(t *testing.T) {
	s := monitor.NewTickerScheduler()
	done := make(chan struct{})

	s.Start(time.Millisecond, func() {
		s.Stop()
		select {
		case <-done:
		default:
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
}

func TestTickerSchedulerStopIdempotent(t *testing.T) {
	s := monitor.NewTickerScheduler()
	assert.NotPanics(t, func() {
		s.Stop()
		s.Stop()
	})
}
