package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/monitor"
)

var errQuit = errors.New().WithMessage(errors.ErrInvalidOperation, "quit requested")

// controller is the part of the monitor driven from stdin.
type controller interface {
	Start(ctx context.Context, timeoutMinutes int)
	Stop()
	Status() monitor.Status
	Thresholds() monitor.Thresholds
}

// control reads one command per line from in until ctx is done, in is
// exhausted, or "quit" is read (which returns errQuit).
//
//	start [minutes]  start or restart; bad minutes keep the previous timeout
//	stop             stop ticking, displays are left as they are
//	status           print the last tick
//	quit             stop and exit
func control(ctx context.Context, m controller, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := handle(ctx, m, line, out); err != nil {
				return err
			}
		}
	}
}

func handle(ctx context.Context, m controller, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "start":
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		timeout := monitor.ParseTimeoutMinutes(arg, m.Thresholds().IdleTimeout)
		m.Start(ctx, int(timeout/time.Minute))
		fmt.Fprintf(out, "started, timeout %s\n", timeout)
	case "stop":
		m.Stop()
		fmt.Fprintln(out, "stopped")
	case "status":
		writeStatus(out, m.Status())
	case "quit", "exit":
		m.Stop()
		return errQuit
	default:
		fmt.Fprintf(out, "unknown command %q (start [minutes], stop, status, quit)\n", fields[0])
	}

	return nil
}

func writeStatus(out io.Writer, s monitor.Status) {
	running := "stopped"
	if s.Running {
		running = "running"
	}
	fmt.Fprintf(out, "%s state=%s idle=%s audio=%t timeout=%s\n",
		running, s.State, s.Idle.Truncate(time.Millisecond), s.Audio, s.Timeout)
}
