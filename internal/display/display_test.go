package display

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/command/commandtest"
	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = stderrors.New("executable file not found")

func TestXsetController(t *testing.T) {
	runner := commandtest.New(errMissing).
		On("xset dpms force off", "", nil).
		On("xset dpms force on", "", nil).
		On("xset s reset", "", nil)
	c := NewXsetController(runner)

	require.NoError(t, c.Off(context.Background()))
	require.NoError(t, c.On(context.Background()))

	assert.Equal(t, []string{
		"xset dpms force off",
		"xset dpms force on",
		"xset s reset",
	}, runner.Calls())
}

func TestXsetControllerErrors(t *testing.T) {
	c := NewXsetController(commandtest.New(errMissing))

	err := c.Off(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrPowerOff))
	assert.ErrorIs(t, err, errMissing)

	err = c.On(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrPowerOn))
}

func TestXsetScreenSaverResetIsBestEffort(t *testing.T) {
	runner := commandtest.New(errMissing).On("xset dpms force on", "", nil)
	assert.NoError(t, NewXsetController(runner).On(context.Background()))
}

func TestPmsetController(t *testing.T) {
	runner := commandtest.New(errMissing).
		On("pmset displaysleepnow", "", nil).
		On("caffeinate -u -t 1", "", nil)
	c := NewPmsetController(runner)

	require.NoError(t, c.Off(context.Background()))
	require.NoError(t, c.On(context.Background()))
	assert.Equal(t, []string{"pmset displaysleepnow", "caffeinate -u -t 1"}, runner.Calls())

	err := NewPmsetController(commandtest.New(errMissing)).Off(context.Background())
	assert.True(t, errors.HasCode(err, ErrPowerOff))
}

func TestSinkSwallowsFailures(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(NewXsetController(commandtest.New(errMissing)), logger.NewWithWriter(&buf))

	assert.NotPanics(t, func() {
		sink.PowerOff(context.Background())
		sink.PowerOn(context.Background())
	})

	out := buf.String()
	assert.Contains(t, out, "Failed to power off displays")
	assert.Contains(t, out, "Failed to power on displays")
	assert.Contains(t, out, `"controller":"xset"`)
}

func TestSinkSuccessIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(noop{}, logger.NewWithWriter(&buf))

	sink.PowerOff(context.Background())
	sink.PowerOn(context.Background())

	assert.Empty(t, buf.String())
	assert.Equal(t, "noop", sink.Controller().Name())
}

type scriptedController struct {
	name string
	err  error
	offs int
	ons  int
}

func (c *scriptedController) Off(context.Context) error { c.offs++; return c.err }
func (c *scriptedController) On(context.Context) error  { c.ons++; return c.err }
func (c *scriptedController) Name() string              { return c.name }

func TestFallbackUsesFirstWorking(t *testing.T) {
	broken := &scriptedController{name: "dpms", err: stderrors.New("no display")}
	working := &scriptedController{name: "xset"}
	unused := &scriptedController{name: "noop"}
	f := Fallback{broken, working, unused}

	require.NoError(t, f.Off(context.Background()))
	require.NoError(t, f.On(context.Background()))

	assert.Equal(t, "dpms,xset,noop", f.Name())
	assert.Equal(t, 1, broken.offs)
	assert.Equal(t, 1, working.ons)
	assert.Zero(t, unused.offs+unused.ons)
}

func TestFallbackAllFail(t *testing.T) {
	last := stderrors.New("xset missing")
	f := Fallback{
		&scriptedController{name: "dpms", err: stderrors.New("no display")},
		&scriptedController{name: "xset", err: last},
	}

	assert.ErrorIs(t, f.Off(context.Background()), last)
}

type hungController struct {
	release chan struct{}
}

func (c *hungController) Off(context.Context) error { <-c.release; return nil }
func (c *hungController) On(context.Context) error  { <-c.release; return nil }
func (*hungController) Name() string                { return "hung" }

func TestSinkGivesUpOnHungCommand(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	var buf bytes.Buffer
	sink := NewSink(&hungController{release: release}, logger.NewWithWriter(&buf))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	sink.PowerOff(ctx)

	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, buf.String(), "Failed to power off displays")
	assert.Contains(t, buf.String(), context.DeadlineExceeded.Error())
}

type closingController struct {
	scriptedController
	closed int
}

func (c *closingController) Close() { c.closed++ }

func TestCloseReleasesConnections(t *testing.T) {
	conn := &closingController{scriptedController: scriptedController{name: "dpms"}}
	f := Fallback{conn, &scriptedController{name: "xset"}}

	f.Close()
	assert.Equal(t, 1, conn.closed)

	NewSink(f, logger.Nop()).Close()
	assert.Equal(t, 2, conn.closed)

	assert.NotPanics(t, func() { NewSink(noop{}, logger.Nop()).Close() })
}

func TestDPMSControllerWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	c := NewDPMSController()
	defer c.Close()

	err := c.Off(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrPowerOff))
}
