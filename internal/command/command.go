// Package command runs short-lived external helpers (xprintidle, xset,
// pactl, parec) with a bounded lifetime. Every call owns its process: the
// child is killed when the deadline passes and the handle is reaped before
// the call returns.
package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
)

const (
	// DefaultTimeout bounds helpers that should answer immediately.
	DefaultTimeout = time.Second

	// waitDelay is how long Wait keeps draining pipes after the child was
	// killed before closing them.
	waitDelay = 100 * time.Millisecond
)

// Runner executes external commands. Platform sources depend on this
// interface so tests can script helper output.
type Runner interface {
	// Output runs name and returns its stdout. A non-zero exit, a missing
	// binary or a timeout is an error.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Capture runs a command that streams until killed, for at most
	// window, and returns whatever it wrote to stdout.
	Capture(ctx context.Context, window time.Duration, name string, args ...string) ([]byte, error)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	Timeout time.Duration
}

// New returns a Runner with DefaultTimeout.
func New() *Exec {
	return &Exec{Timeout: DefaultTimeout}
}

func (e *Exec) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

func (e *Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errFactory.Wrap(ErrCommandTimeout, ctx.Err()).WithData(commandLine(name, args))
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errFactory.Wrap(ErrCommandNotFound, err).WithData(name)
		}
		return nil, errFactory.Wrap(ErrCommandFailed, err).WithData(failure{
			Command: commandLine(name, args),
			Stderr:  strings.TrimSpace(stderr.String()),
			Error:   err.Error(),
		})
	}

	return stdout.Bytes(), nil
}

func (e *Exec) Capture(ctx context.Context, window time.Duration, name string, args ...string) ([]byte, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil || (ctx.Err() == context.DeadlineExceeded && stdout.Len() > 0) {
		return stdout.Bytes(), nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, errFactory.Wrap(ErrCommandNotFound, err).WithData(name)
	}
	if ctx.Err() != nil {
		return nil, errFactory.Wrap(ErrCommandTimeout, ctx.Err()).WithData(commandLine(name, args))
	}

	return nil, errFactory.Wrap(ErrCommandFailed, err).WithData(commandLine(name, args))
}

// Available reports whether name resolves on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

type failure struct {
	Command string
	Stderr  string
	Error   string
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
