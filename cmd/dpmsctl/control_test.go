package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu         sync.Mutex
	starts     []int
	stops      int
	thresholds monitor.Thresholds
	status     monitor.Status
}

func newFakeController() *fakeController {
	return &fakeController{thresholds: monitor.DefaultThresholds()}
}

func (f *fakeController) Start(_ context.Context, minutes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, minutes)
	f.thresholds = f.thresholds.WithTimeoutMinutes(minutes)
	f.status.Running = true
}

func (f *fakeController) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.status.Running = false
}

func (f *fakeController) Status() monitor.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeController) Thresholds() monitor.Thresholds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.thresholds
}

func TestControlStartParsesMinutes(t *testing.T) {
	m := newFakeController()
	var out bytes.Buffer

	in := strings.NewReader("start 10\nstart abc\nstart\nstart -4\n")
	require.NoError(t, control(context.Background(), m, in, &out))

	// Invalid input keeps the previous timeout.
	assert.Equal(t, []int{10, 10, 10, 10}, m.starts)
	assert.Contains(t, out.String(), "started, timeout 10m0s")
}

func TestControlStopStatusQuit(t *testing.T) {
	m := newFakeController()
	m.status = monitor.Status{
		State:   monitor.Blanked,
		Idle:    90 * time.Second,
		Timeout: time.Minute,
		Running: true,
	}
	var out bytes.Buffer

	in := strings.NewReader("status\nSTOP\nquit\nstart 5\n")
	err := control(context.Background(), m, in, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errQuit))

	assert.Contains(t, out.String(), "running state=blanked idle=1m30s audio=false timeout=1m0s")
	assert.Contains(t, out.String(), "stopped")
	assert.Equal(t, 2, m.stops)
	assert.Empty(t, m.starts, "commands after quit are not read")
}

func TestControlUnknownCommand(t *testing.T) {
	m := newFakeController()
	var out bytes.Buffer

	require.NoError(t, control(context.Background(), m, strings.NewReader("\nblank now\n"), &out))
	assert.Contains(t, out.String(), `unknown command "blank"`)
}

func TestControlStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// A reader that never returns data.
	r, w := io.Pipe()
	defer w.Close()

	go func() {
		done <- control(ctx, newFakeController(), r, &bytes.Buffer{})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("control did not return after cancel")
	}
}
