// Package idle reports how long the user has been away from keyboard and
// mouse. Platform probes may fail; Source turns every failure into a zero
// idle time so the display is never blanked on a bad reading.
package idle

import (
	"context"
	"math"
	"sync"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/logger"
)

// Probe reads the raw idle time from the platform.
type Probe interface {
	IdleTime(ctx context.Context) (time.Duration, error)
	Name() string
}

// Source is the fail-safe idle time reader used by the monitor.
type Source struct {
	probe  Probe
	logger logger.Logger

	// busy holds a token while a probe call is outstanding.
	busy chan struct{}
}

// NewSource wraps probe.
func NewSource(probe Probe, log logger.Logger) *Source {
	return &Source{probe: probe, logger: log, busy: make(chan struct{}, 1)}
}

// New returns a Source backed by the probe for the running platform.
func New(log logger.Logger) *Source {
	return NewSource(newPlatformProbe(), log)
}

type reading struct {
	idle time.Duration
	err  error
}

// Query returns the idle time, or zero when it cannot be determined. It
// returns once ctx is done even if the probe ignores ctx; while such a call
// is still outstanding, later queries return zero without calling the probe.
func (s *Source) Query(ctx context.Context) time.Duration {
	select {
	case s.busy <- struct{}{}:
	default:
		s.logger.Debug().Str("probe", s.probe.Name()).Msg("Idle query still pending, assuming active")
		return 0
	}

	done := make(chan reading, 1)
	go func() {
		defer func() { <-s.busy }()
		d, err := s.probe.IdleTime(ctx)
		done <- reading{idle: d, err: err}
	}()

	var r reading
	select {
	case r = <-done:
	case <-ctx.Done():
		r.err = ctx.Err()
	}

	if r.err != nil {
		s.logger.Debug().Err(r.err).Str("probe", s.probe.Name()).Msg("Idle query failed, assuming active")
		return 0
	}
	if r.idle < 0 {
		return 0
	}
	return r.idle
}

// Close releases any connection held by the probe.
func (s *Source) Close() {
	closeProbe(s.probe)
}

// Probe returns the underlying platform probe.
func (s *Source) Probe() Probe {
	return s.probe
}

// Chain tries several probes and sticks with the first one that answers.
// The sticky probe is tried first on later calls; the others are only
// consulted when it fails.
type Chain struct {
	mu      sync.Mutex
	probes  []Probe
	current int
}

// NewChain returns a Chain over probes in order of preference.
func NewChain(probes ...Probe) *Chain {
	return &Chain{probes: probes}
}

// Name returns the name of the probe that answered last.
func (c *Chain) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.probes) == 0 {
		return "none"
	}
	return c.probes[c.current].Name()
}

// Close closes every probe that holds a connection. probes is fixed at
// construction, so Close does not wait for a query in flight.
func (c *Chain) Close() {
	for _, p := range c.probes {
		closeProbe(p)
	}
}

func closeProbe(p Probe) {
	if c, ok := p.(interface{ Close() }); ok {
		c.Close()
	}
}

func (c *Chain) IdleTime(ctx context.Context) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.probes) == 0 {
		return 0, errors.New().New(ErrNoProbe)
	}

	var (
		lastErr error
		tried   []string
	)
	order := []int{c.current}
	for i := range c.probes {
		if i != c.current {
			order = append(order, i)
		}
	}

	for _, idx := range order {
		p := c.probes[idx]
		d, err := p.IdleTime(ctx)
		if err == nil {
			c.current = idx
			return d, nil
		}
		lastErr = err
		tried = append(tried, p.Name())
	}

	return 0, errors.New().Wrap(ErrQueryFailed, lastErr).WithData(tried)
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// fromMillis converts a reported millisecond count, rejecting values that
// would overflow a time.Duration.
func fromMillis(ms uint64) (time.Duration, error) {
	if ms > uint64(maxMillis) {
		return 0, errors.New().WithData(ErrParseFailed, ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// elapsedMillis returns now-last on a 32-bit millisecond tick counter. The
// counter wraps every ~49.7 days; unsigned subtraction yields the right
// interval across the wrap.
func elapsedMillis(now, last uint32) time.Duration {
	return time.Duration(now-last) * time.Millisecond
}

// unsupported is the probe for platforms without idle detection.
type unsupported struct{}

func (unsupported) IdleTime(context.Context) (time.Duration, error) {
	return 0, nil
}

func (unsupported) Name() string {
	return "unsupported"
}
