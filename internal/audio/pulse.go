package audio

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/command"
	"codeberg.org/mutker/dpmsctl/internal/errors"
)

const (
	// sampleWindow is how long each Peak call listens to the monitor source.
	sampleWindow = 150 * time.Millisecond
	sampleRate   = 8000
)

// PulseMeter samples the monitor source of a PulseAudio (or PipeWire-pulse)
// sink with parec and measures the peak of what it captured.
type PulseMeter struct {
	runner command.Runner
	sink   string
	window time.Duration
}

// NewPulseMeter resolves the current default sink once and binds to its
// monitor source.
func NewPulseMeter(ctx context.Context, runner command.Runner) (*PulseMeter, error) {
	sink, err := defaultSink(ctx, runner)
	if err != nil {
		return nil, err
	}

	return &PulseMeter{runner: runner, sink: sink, window: sampleWindow}, nil
}

func (m *PulseMeter) Device() string {
	return m.sink
}

func (m *PulseMeter) Peak(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	out, err := m.runner.Capture(ctx, m.window,
		"parec",
		"--device="+m.sink+".monitor",
		"--raw",
		"--format=s16le",
		"--channels=2",
		"--rate="+strconv.Itoa(sampleRate),
		"--latency-msec=20",
	)
	if err != nil {
		return 0, errFactory.Wrap(ErrMeterFailed, err)
	}

	return PeakS16LE(out), nil
}

// defaultSink asks pactl for the default sink. Older pactl releases lack
// get-default-sink, so "pactl info" is parsed as a fallback.
func defaultSink(ctx context.Context, runner command.Runner) (string, error) {
	errFactory := errors.New()

	out, err := runner.Output(ctx, "pactl", "get-default-sink")
	if err == nil {
		if sink := strings.TrimSpace(string(out)); sink != "" {
			return sink, nil
		}
	}

	info, infoErr := runner.Output(ctx, "pactl", "info")
	if infoErr != nil {
		return "", errFactory.Wrap(ErrNoDefaultDevice, infoErr)
	}

	scanner := bufio.NewScanner(bytes.NewReader(info))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.TrimSpace(key) == "Default Sink" {
			if sink := strings.TrimSpace(value); sink != "" && sink != "@DEFAULT_SINK@" {
				return sink, nil
			}
		}
	}

	return "", errFactory.New(ErrNoDefaultDevice)
}
