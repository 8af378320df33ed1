package idle

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

// IORegProbe reads HIDIdleTime (nanoseconds) from the macOS I/O registry.
type IORegProbe struct {
	runner command.Runner
}

// NewIORegProbe returns a probe using runner.
func NewIORegProbe(runner command.Runner) *IORegProbe {
	return &IORegProbe{runner: runner}
}

func (*IORegProbe) Name() string {
	return "ioreg"
}

func (p *IORegProbe) IdleTime(ctx context.Context) (time.Duration, error) {
	errFactory := errors.New()

	out, err := p.runner.Output(ctx, "ioreg", "-c", "IOHIDSystem", "-d", "4")
	if err != nil {
		return 0, errFactory.Wrap(ErrQueryFailed, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		ns, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, errFactory.Wrap(ErrParseFailed, err)
		}
		return time.Duration(ns), nil
	}

	return 0, errFactory.WithData(ErrParseFailed, "HIDIdleTime not found")
}
