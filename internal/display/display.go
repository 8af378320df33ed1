// Package display issues display power commands. Controllers report
// failures; Sink logs them and carries on, so a failed command never stops
// the monitor loop.
package display

import (
	"context"
	"strings"

	"codeberg.org/mutker/dpmsctl/internal/logger"
)

// Controller switches every attached display off or on.
type Controller interface {
	Off(ctx context.Context) error
	On(ctx context.Context) error
	Name() string
}

// Sink is the fire-and-forget wrapper used by the monitor.
type Sink struct {
	ctrl   Controller
	logger logger.Logger
}

// NewSink wraps ctrl.
func NewSink(ctrl Controller, log logger.Logger) *Sink {
	return &Sink{ctrl: ctrl, logger: log}
}

// New returns a Sink for the running platform.
func New(log logger.Logger) *Sink {
	return NewSink(newPlatformController(), log)
}

// PowerOff returns when the command completes or ctx is done, whichever is
// first. A command still running at that point is left to finish.
func (s *Sink) PowerOff(ctx context.Context) {
	if err := bounded(ctx, s.ctrl.Off); err != nil {
		s.logger.Warn().Err(err).Str("controller", s.ctrl.Name()).Msg("Failed to power off displays")
	}
}

func (s *Sink) PowerOn(ctx context.Context) {
	if err := bounded(ctx, s.ctrl.On); err != nil {
		s.logger.Warn().Err(err).Str("controller", s.ctrl.Name()).Msg("Failed to power on displays")
	}
}

// Close releases any connection held by the controller.
func (s *Sink) Close() {
	closeController(s.ctrl)
}

func bounded(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func closeController(c Controller) {
	if closer, ok := c.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Controller returns the wrapped controller.
func (s *Sink) Controller() Controller {
	return s.ctrl
}

// Fallback tries controllers in order until one succeeds.
type Fallback []Controller

func (f Fallback) Name() string {
	names := make([]string, len(f))
	for i, c := range f {
		names[i] = c.Name()
	}
	return strings.Join(names, ",")
}

func (f Fallback) Off(ctx context.Context) error {
	return f.each(func(c Controller) error { return c.Off(ctx) })
}

func (f Fallback) On(ctx context.Context) error {
	return f.each(func(c Controller) error { return c.On(ctx) })
}

func (f Fallback) Close() {
	for _, c := range f {
		closeController(c)
	}
}

func (f Fallback) each(fn func(Controller) error) error {
	var err error
	for _, c := range f {
		if err = fn(c); err == nil {
			return nil
		}
	}
	return err
}

type noop struct{}

func (noop) Off(context.Context) error { return nil }
func (noop) On(context.Context) error  { return nil }
func (noop) Name() string              { return "noop" }
