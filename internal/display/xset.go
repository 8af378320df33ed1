package display

import (
	"context"

	"codeberg.org/mutker/dpmsctl/internal/command"
	"codeberg.org/mutker/dpmsctl/internal/errors"
)

// XsetController forces DPMS through xset. Forcing "on" also resets the X
// screen saver so the server's own timers do not blank again immediately.
type XsetController struct {
	runner command.Runner
}

func NewXsetController(runner command.Runner) *XsetController {
	return &XsetController{runner: runner}
}

func (*XsetController) Name() string {
	return "xset"
}

func (c *XsetController) Off(ctx context.Context) error {
	if _, err := c.runner.Output(ctx, "xset", "dpms", "force", "off"); err != nil {
		return errors.New().Wrap(ErrPowerOff, err)
	}
	return nil
}

func (c *XsetController) On(ctx context.Context) error {
	if _, err := c.runner.Output(ctx, "xset", "dpms", "force", "on"); err != nil {
		return errors.New().Wrap(ErrPowerOn, err)
	}
	// Best effort; DPMS is already on at this point.
	_, _ = c.runner.Output(ctx, "xset", "s", "reset")
	return nil
}
