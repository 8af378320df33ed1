// Package monitor implements the display power state machine. A Monitor is
// passive: something else (a Scheduler, a UI timer, a test) calls Tick, and
// each tick reads idle time and audio activity, then powers the display off
// or on when the hysteresis rules say so.
package monitor

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/logger"
	"github.com/google/uuid"
)

// Monitor owns the display power state. Only Tick changes it.
type Monitor struct {
	idle    IdleSource
	audio   AudioSource
	display DisplaySink

	scheduler  Scheduler
	observer   func(Status)
	logger     logger.Logger
	now        func() time.Time
	newSession func() string

	// tickMu serializes ticks end to end, observer included.
	tickMu sync.Mutex

	// mu guards the fields below.
	mu         sync.Mutex
	thresholds Thresholds
	state      State
	running    bool
	session    string
	last       Status
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithScheduler sets the driver used by Start and Stop.
func WithScheduler(s Scheduler) Option {
	return func(m *Monitor) {
		m.scheduler = s
	}
}

// WithObserver registers a callback invoked with the Status of every tick.
// The callback runs on the ticking goroutine and may call Status or Stop,
// but not Tick or Start.
func WithObserver(fn func(Status)) Option {
	return func(m *Monitor) {
		m.observer = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

// WithThresholds replaces the default thresholds.
func WithThresholds(t Thresholds) Option {
	return func(m *Monitor) {
		m.thresholds = t
	}
}

// WithClock overrides time.Now for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// WithSessionIDs overrides the session identifier generator.
func WithSessionIDs(fn func() string) Option {
	return func(m *Monitor) {
		m.newSession = fn
	}
}

// New creates a Monitor in the Active state.
func New(idle IdleSource, audio AudioSource, display DisplaySink, opts ...Option) *Monitor {
	m := &Monitor{
		idle:       idle,
		audio:      audio,
		display:    display,
		scheduler:  NewTickerScheduler(),
		logger:     logger.New("monitor"),
		now:        time.Now,
		newSession: uuid.NewString,
		thresholds: DefaultThresholds(),
		state:      Active,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.last = Status{State: Active, Timeout: m.thresholds.IdleTimeout}

	return m
}

// Start resets the state to Active, applies timeoutMinutes when it is a
// valid positive value (otherwise the previous timeout is kept) and begins
// ticking on the poll interval. Calling Start while running restarts the
// schedule with a new session.
func (m *Monitor) Start(ctx context.Context, timeoutMinutes int) {
	m.scheduler.Stop()

	m.tickMu.Lock()
	m.mu.Lock()
	m.thresholds = m.thresholds.WithTimeoutMinutes(timeoutMinutes)
	m.state = Active
	m.running = true
	m.session = m.newSession()
	m.last = Status{
		Time:    m.now(),
		Session: m.session,
		State:   Active,
		Timeout: m.thresholds.IdleTimeout,
		Running: true,
	}
	interval := m.thresholds.PollInterval
	timeout := m.thresholds.IdleTimeout
	session := m.session
	m.mu.Unlock()
	m.tickMu.Unlock()

	if interval <= 0 {
		interval = PollInterval
	}

	m.logger.Info().
		Str("session", session).
		Dur("timeout", timeout).
		Dur("interval", interval).
		Msg("Monitoring started")

	m.scheduler.Start(interval, func() {
		m.scheduledTick(ctx)
	})
}

// Stop halts ticking. The display is left in whatever state it was last
// commanded to.
func (m *Monitor) Stop() {
	m.scheduler.Stop()

	m.mu.Lock()
	wasRunning := m.running
	m.running = false
	m.last.Running = false
	state := m.state
	m.mu.Unlock()

	if wasRunning {
		m.logger.Info().Str("state", state.String()).Msg("Monitoring stopped")
	}
}

// Running reports whether the scheduler is driving ticks.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Thresholds returns the thresholds in effect.
func (m *Monitor) Thresholds() Thresholds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thresholds
}

// Status returns the result of the most recent tick.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Monitor) scheduledTick(ctx context.Context) {
	if !m.Running() || ctx.Err() != nil {
		return
	}
	m.Tick(ctx)
}

// Tick samples both sources and applies at most one transition:
//
//	Active  -> Blanked when idle > timeout and no audio
//	Blanked -> Active  when idle <= wake floor or audio
//
// A tick takes at most one poll interval: the sources share the first half
// and the power command gets the rest. Concurrent calls are serialized.
func (m *Monitor) Tick(ctx context.Context) Status {
	m.tickMu.Lock()
	defer m.tickMu.Unlock()

	m.mu.Lock()
	t := m.thresholds
	state := m.state
	m.mu.Unlock()

	budget := t.PollInterval
	if budget <= 0 {
		budget = PollInterval
	}
	tickCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	queryCtx, cancelQuery := context.WithTimeout(tickCtx, budget/2)
	defer cancelQuery()

	idle := m.idle.Query(queryCtx)
	audio := m.audio.Query(queryCtx)

	next, transition := evaluate(state, idle, audio, t)

	switch transition {
	case PowerOff:
		m.display.PowerOff(tickCtx)
	case PowerOn:
		m.display.PowerOn(tickCtx)
	}

	m.mu.Lock()
	m.state = next
	m.last = Status{
		Time:       m.now(),
		Session:    m.session,
		Idle:       idle,
		Audio:      audio,
		State:      next,
		Transition: transition,
		Timeout:    t.IdleTimeout,
		Running:    m.running,
	}
	status := m.last
	m.mu.Unlock()

	m.logStatus(status)

	if m.observer != nil {
		m.observer(status)
	}

	return status
}

func evaluate(state State, idle time.Duration, audio bool, t Thresholds) (State, Transition) {
	switch state {
	case Active:
		if idle > t.IdleTimeout && !audio {
			return Blanked, PowerOff
		}
	case Blanked:
		// Inclusive: an idle time of exactly the wake floor wakes.
		if idle <= t.WakeFloor || audio {
			return Active, PowerOn
		}
	}

	return state, NoTransition
}

func (m *Monitor) logStatus(s Status) {
	if s.Transition != NoTransition {
		m.logger.Info().
			Str("transition", string(s.Transition)).
			Int64("idle_ms", s.Idle.Milliseconds()).
			Bool("audio", s.Audio).
			Msg("Display power changed")
		return
	}

	m.logger.Debug().
		Int64("idle_ms", s.Idle.Milliseconds()).
		Bool("audio", s.Audio).
		Str("state", s.State.String()).
		Dur("timeout", s.Timeout).
		Msg("")
}
