package monitor

import (
	"sync"
	"time"
)

// TickerScheduler runs fn on its own goroutine every interval. Calls never
// overlap; ticks that fall due while fn is still running are dropped.
type TickerScheduler struct {
	mu   sync.Mutex
	stop chan struct{}
}

// NewTickerScheduler returns a stopped scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Start begins a new schedule, replacing any running one.
func (s *TickerScheduler) Start(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop ends the schedule. It does not wait for an in-flight call, so it is
// safe to call from fn itself.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
