package monitor

import (
	"context"
	"time"
)

// IdleSource reports how long the user has been inactive. Implementations
// never fail: an undeterminable idle time is reported as zero.
type IdleSource interface {
	Query(ctx context.Context) time.Duration
}

// AudioSource reports whether the default output device is playing sound
// above its threshold. Implementations report false when they cannot tell.
type AudioSource interface {
	Query(ctx context.Context) bool
}

// DisplaySink issues display power commands. Both calls are fire-and-forget.
type DisplaySink interface {
	PowerOff(ctx context.Context)
	PowerOn(ctx context.Context)
}

// Scheduler invokes a function on a fixed interval until stopped. It may
// deliver overlapping calls; Monitor serializes them.
type Scheduler interface {
	Start(interval time.Duration, fn func())
	Stop()
}

// State is the display power state as last commanded by the monitor.
type State int

const (
	Active State = iota
	Blanked
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Blanked:
		return "blanked"
	default:
		return "unknown"
	}
}

// Transition names the power command issued during a tick, if any.
type Transition string

const (
	NoTransition Transition = ""
	PowerOff     Transition = "power_off"
	PowerOn      Transition = "power_on"
)

// Status is the observable result of the most recent tick.
type Status struct {
	Time       time.Time
	Session    string
	Idle       time.Duration
	Audio      bool
	State      State
	Transition Transition
	Timeout    time.Duration
	Running    bool
}

// Blanked reports whether the display is currently considered off.
func (s Status) Blanked() bool {
	return s.State == Blanked
}
