package display

import (
	"context"

	"codeberg.org/mutker/dpmsctl/internal/command"
	"codeberg.org/mutker/dpmsctl/internal/errors"
)

// PmsetController sleeps macOS displays with pmset and wakes them by
// declaring user activity through caffeinate.
type PmsetController struct {
	runner command.Runner
}

func NewPmsetController(runner command.Runner) *PmsetController {
	return &PmsetController{runner: runner}
}

func (*PmsetController) Name() string {
	return "pmset"
}

func (c *PmsetController) Off(ctx context.Context) error {
	if _, err := c.runner.Output(ctx, "pmset", "displaysleepnow"); err != nil {
		return errors.New().Wrap(ErrPowerOff, err)
	}
	return nil
}

func (c *PmsetController) On(ctx context.Context) error {
	if _, err := c.runner.Output(ctx, "caffeinate", "-u", "-t", "1"); err != nil {
		return errors.New().Wrap(ErrPowerOn, err)
	}
	return nil
}
