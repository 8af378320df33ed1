// Package audio decides whether the default output device is playing
// sound. A Meter reads the device's peak level; Detector compares it to a
// threshold and treats any failure as silence.
package audio

import (
	"context"

	"codeberg.org/mutker/dpmsctl/internal/logger"
)

// Meter reads the current output peak, normalized to 0.0..1.0.
type Meter interface {
	Peak(ctx context.Context) (float64, error)
	Device() string
}

// Detector is the fail-safe audio activity check used by the monitor.
type Detector struct {
	meter     Meter
	threshold float64
	logger    logger.Logger

	// busy holds a token while a meter call is outstanding.
	busy chan struct{}
}

// NewDetector wraps meter with threshold.
func NewDetector(meter Meter, threshold float64, log logger.Logger) *Detector {
	return &Detector{meter: meter, threshold: threshold, logger: log, busy: make(chan struct{}, 1)}
}

// New binds to the platform's current default output device. The binding is
// not refreshed: if the user switches default devices mid-session the
// detector keeps listening to the old one. A device that cannot be resolved
// yields a detector that always reports silence.
func New(ctx context.Context, threshold float64, log logger.Logger) *Detector {
	meter, err := newPlatformMeter(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("No default output device, audio detection disabled")
		meter = silent{}
	} else {
		log.Debug().Str("device", meter.Device()).Msg("Audio meter bound")
	}

	return NewDetector(meter, threshold, log)
}

type reading struct {
	peak float64
	err  error
}

// Query reports whether the peak exceeds the threshold. It returns once ctx
// is done even if the meter ignores ctx; while such a call is outstanding,
// later queries report silence without touching the meter.
func (d *Detector) Query(ctx context.Context) bool {
	select {
	case d.busy <- struct{}{}:
	default:
		d.logger.Debug().Str("device", d.meter.Device()).Msg("Audio query still pending, assuming silence")
		return false
	}

	done := make(chan reading, 1)
	go func() {
		defer func() { <-d.busy }()
		peak, err := d.meter.Peak(ctx)
		done <- reading{peak: peak, err: err}
	}()

	var r reading
	select {
	case r = <-done:
	case <-ctx.Done():
		r.err = ctx.Err()
	}

	if r.err != nil {
		d.logger.Debug().Err(r.err).Str("device", d.meter.Device()).Msg("Audio query failed, assuming silence")
		return false
	}

	return r.peak > d.threshold
}

// Device names the bound output device.
func (d *Detector) Device() string {
	return d.meter.Device()
}

// silent is the meter used when no output device is available.
type silent struct{}

func (silent) Peak(context.Context) (float64, error) {
	return 0, nil
}

func (silent) Device() string {
	return ""
}
