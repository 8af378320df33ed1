// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Result is the scripted outcome of one command line.
type Result struct {
	Out []byte
	Err error
}

// Runner answers commands from a script keyed by the full command line
// ("name arg1 arg2"). Unscripted commands fail with Missing.
type Runner struct {
	mu      sync.Mutex
	Script  map[string]Result
	Missing error
	calls   []string
}

// New returns a Runner with an empty script. Unscripted commands fail with
// missing.
func New(missing error) *Runner {
	return &Runner{Script: map[string]Result{}, Missing: missing}
}

// On scripts the result for a command line.
func (r *Runner) On(line string, out string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Script[line] = Result{Out: []byte(out), Err: err}
	return r
}

func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	return r.lookup(name, args)
}

func (r *Runner) Capture(_ context.Context, _ time.Duration, name string, args ...string) ([]byte, error) {
	return r.lookup(name, args)
}

// Calls returns the command lines run so far.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *Runner) lookup(name string, args []string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, line)

	res, ok := r.Script[line]
	if !ok {
		return nil, r.Missing
	}
	return res.Out, res.Err
}
