package monitor

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultIdleTimeout is used until a valid timeout is supplied.
	DefaultIdleTimeout = time.Minute

	// WakeFloor is the idle time below which a blanked display is woken.
	// It must stay well under any idle timeout so the two thresholds never
	// meet.
	WakeFloor = 5 * time.Second

	// PollInterval is the tick cadence.
	PollInterval = 2 * time.Second

	// DefaultAudioThreshold is the peak meter value above which audio counts
	// as playing.
	DefaultAudioThreshold = 0.01

	// MaxTimeoutMinutes caps user supplied timeouts at one day.
	MaxTimeoutMinutes = 24 * 60
)

// Thresholds is the immutable per-session configuration.
type Thresholds struct {
	IdleTimeout    time.Duration
	WakeFloor      time.Duration
	PollInterval   time.Duration
	AudioThreshold float64
}

// DefaultThresholds returns the stock configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		IdleTimeout:    DefaultIdleTimeout,
		WakeFloor:      WakeFloor,
		PollInterval:   PollInterval,
		AudioThreshold: DefaultAudioThreshold,
	}
}

// WithTimeoutMinutes returns a copy with the idle timeout replaced when
// minutes is a valid positive value; otherwise t is returned unchanged.
func (t Thresholds) WithTimeoutMinutes(minutes int) Thresholds {
	if minutes <= 0 || minutes > MaxTimeoutMinutes {
		return t
	}
	t.IdleTimeout = time.Duration(minutes) * time.Minute
	return t
}

// ParseTimeoutMinutes interprets raw user input as a whole number of
// minutes. Blank, non-numeric, zero, negative or out of range input yields
// previous.
func ParseTimeoutMinutes(input string, previous time.Duration) time.Duration {
	minutes, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || minutes <= 0 || minutes > MaxTimeoutMinutes {
		return previous
	}
	return time.Duration(minutes) * time.Minute
}
